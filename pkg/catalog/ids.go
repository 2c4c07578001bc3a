package catalog

// TypeID identifies an item kind (a ship hull, a module, a charge, a skill...).
type TypeID int32

// GroupID identifies a type's group (e.g. "Medium Shield Extender").
type GroupID int32

// CategoryID identifies a type's top-level category (ship, module, charge...).
type CategoryID int32

// EffectID identifies an Effect definition.
type EffectID int32

// AttrID identifies an attribute definition (capacity, cpuOutput, ...).
type AttrID int32

// Well-known category IDs referenced by the stacking-penalty exemption
// rule and by the restriction register. These mirror the public EVE
// Online SDE category numbering that the modifier data this engine
// consumes is expressed against.
const (
	CategoryShip       CategoryID = 6
	CategoryModule     CategoryID = 7
	CategoryCharge     CategoryID = 8
	CategorySkill      CategoryID = 16
	CategoryImplant    CategoryID = 20
	CategoryDrone      CategoryID = 18
	CategorySubsystem  CategoryID = 32
	CategoryCharacter  CategoryID = 1
)

// Well-known attribute IDs used to derive a Type's required skills: pairs
// of (skill-type-id, level) drawn from fixed attribute slots.
const (
	AttrRequiredSkill1      AttrID = 182
	AttrRequiredSkill1Level AttrID = 277
	AttrRequiredSkill2      AttrID = 183
	AttrRequiredSkill2Level AttrID = 278
	AttrRequiredSkill3      AttrID = 184
	AttrRequiredSkill3Level AttrID = 279
)

// requiredSkillPairs lists the (skill attribute, level attribute) pairs
// checked when deriving Type.RequiredSkills.
var requiredSkillPairs = [3][2]AttrID{
	{AttrRequiredSkill1, AttrRequiredSkill1Level},
	{AttrRequiredSkill2, AttrRequiredSkill2Level},
	{AttrRequiredSkill3, AttrRequiredSkill3Level},
}

// AttrVolume is the base (unmodified) attribute the capital restriction
// register reads.
const AttrVolume AttrID = 161

// AttrIsCapitalSize is the ship attribute the capital restriction register
// checks for truthiness.
const AttrIsCapitalSize AttrID = 1785

// AttrSkillLevel is the synthetic attribute every skill-category Type
// exposes on its Holder; it is the only attribute a caller may write
// directly.
const AttrSkillLevel AttrID = 280
