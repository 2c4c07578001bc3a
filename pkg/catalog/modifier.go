package catalog

// Operator selects how a modifier combines with the value it targets. The
// order of these constants IS the arithmetic order of application the
// calculator applies within the "normal" (non-penalized) bucket:
// assignments bracket the computation, pre-multiplicatives run before
// additives, and post-multiplicatives run after them.
type Operator int8

const (
	PreAssignment Operator = iota
	PreMul
	PreDiv
	ModAdd
	ModSub
	PostMul
	PostDiv
	PostPercent
	PostAssignment
)

// YAML operator codes as used by the external modifier-builder. These are
// the integer encodings persisted in compiled modifier records
// and are distinct from Operator's internal ordinal: the codes start at -1
// for pre-assignment where the ordinal starts at 0, so every code is one
// less than its Operator value. Convert with OperatorFromCode.
const (
	OpCodePreAssignment  = -1
	OpCodePreMul         = 0
	OpCodePreDiv         = 1
	OpCodeModAdd         = 2
	OpCodeModSub         = 3
	OpCodePostMul        = 4
	OpCodePostDiv        = 5
	OpCodePostPercent    = 6
	OpCodePostAssignment = 7
)

// OperatorFromCode maps a YAML build-form operator code to an Operator.
// ok is false for an unrecognized code, which callers must treat as a
// structural error: log and skip the modifier.
func OperatorFromCode(code int) (Operator, bool) {
	switch code {
	case OpCodePreAssignment:
		return PreAssignment, true
	case OpCodePreMul:
		return PreMul, true
	case OpCodePreDiv:
		return PreDiv, true
	case OpCodeModAdd:
		return ModAdd, true
	case OpCodeModSub:
		return ModSub, true
	case OpCodePostMul:
		return PostMul, true
	case OpCodePostDiv:
		return PostDiv, true
	case OpCodePostPercent:
		return PostPercent, true
	case OpCodePostAssignment:
		return PostAssignment, true
	default:
		return 0, false
	}
}

// String renders the operator for logging.
func (o Operator) String() string {
	switch o {
	case PreAssignment:
		return "pre-assignment"
	case PreMul:
		return "pre-mul"
	case PreDiv:
		return "pre-div"
	case ModAdd:
		return "mod-add"
	case ModSub:
		return "mod-sub"
	case PostMul:
		return "post-mul"
	case PostDiv:
		return "post-div"
	case PostPercent:
		return "post-percent"
	case PostAssignment:
		return "post-assignment"
	default:
		return "unknown"
	}
}

// Domain resolves the root target of a modifier relative to its source
// holder.
type Domain int8

const (
	DomainSelf Domain = iota
	DomainCharacter
	DomainShip
	DomainSpace
	DomainOther
)

func (d Domain) String() string {
	switch d {
	case DomainSelf:
		return "self"
	case DomainCharacter:
		return "character"
	case DomainShip:
		return "ship"
	case DomainSpace:
		return "space"
	case DomainOther:
		return "other"
	default:
		return "unknown"
	}
}

// FilterType narrows a Domain's root to a subset of fit-holders.
type FilterType int8

const (
	FilterNone FilterType = iota
	FilterAll
	FilterGroup
	FilterSkill
)

func (f FilterType) String() string {
	switch f {
	case FilterNone:
		return "none"
	case FilterAll:
		return "all"
	case FilterGroup:
		return "group"
	case FilterSkill:
		return "skill"
	default:
		return "unknown"
	}
}

// Scope is a modifier's reach. The core engine treats scope as a pure
// gating filter: it never changes how a value combines, only whether it
// is considered at all in the current fit/projection context.
type Scope int8

const (
	ScopeLocal Scope = iota
	ScopeGang
	ScopeProjected
)

// SrcKind distinguishes a modifier whose magnitude comes from another
// holder's attribute from one carrying a literal constant. Constant-value
// modifiers are never penalized.
type SrcKind int8

const (
	SrcAttribute SrcKind = iota
	SrcValue
)

// OwnerModifiesSelf is the sentinel FilterValue meaning "this skill filter
// should cross-reference the source holder's owner". It is distinguished
// from any real skill TypeID by being non-positive; real TypeIDs are
// always positive.
const OwnerModifiesSelf = GroupOrSkillID(0)

// GroupOrSkillID is the FilterValue payload for FilterGroup (a GroupID) or
// FilterSkill (a skill TypeID).
type GroupOrSkillID int32

// Modifier is the declarative rule language record: source, target,
// filter, operator, state, scope. Modifier values are immutable and are
// shared by every Effect that was compiled with an identical rule.
type Modifier struct {
	State       State
	Scope       Scope
	SrcKind     SrcKind
	SrcAttr     AttrID  // valid when SrcKind == SrcAttribute
	SrcValue    float64 // valid when SrcKind == SrcValue
	Operator    Operator
	TgtAttr     AttrID
	Domain      Domain
	FilterType  FilterType
	FilterValue GroupOrSkillID
}
