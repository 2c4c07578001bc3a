package catalog

// AttributeMetadata describes how the calculator should treat a given
// attribute id. It is looked up once per Calculator.Get call.
type AttributeMetadata struct {
	// Stackable, when true, exempts the attribute entirely from the
	// stacking-penalty rule: every multiplicative modifier contributes in
	// full regardless of source category.
	Stackable bool

	// HighIsGood decides the winner of pre-assignment/post-assignment ties
	// among competing modifiers: max if true, else min.
	HighIsGood bool

	// MaxAttributeID, if set, names another attribute on the same holder
	// whose current value caps this one.
	MaxAttributeID AttrID
	HasMax         bool

	// DefaultValue is the attribute's default as carried in the catalog
	// bundle. Nothing in this module reads it: the core calculator only
	// ever reads Type.Attributes and never falls back to this field — a
	// missing base value with no affectors is AttributeNotFound.
	DefaultValue float64
}
