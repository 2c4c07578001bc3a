package modbuild

import (
	"fmt"
	"log/slog"

	"github.com/evefit/fitcalc/pkg/catalog"
)

// LegacyModifier is the pre-expression/post-expression pair form: a
// legacy expression-tree pair with numeric operand ids. The upstream
// dogma expression trees these are compiled from ultimately bottom out at
// exactly this tuple of primitives for every modifier shape the core
// engine needs to represent; this package accepts the already-flattened
// tuple rather than re-parsing a general expression tree, since the
// legacy operand code table itself is a build-time-only concern the core
// never sees — the legacy operand integer codes are documented by the
// compiler, not the core.
type LegacyModifier struct {
	PreOperand  int
	PostOperand int
	State       catalog.State
	DomainCode  int
	FilterCode  int
	FilterValue int32
	SrcAttrID   int32
	TgtAttrID   int32
}

// Legacy operand codes pairing a pre-expression/post-expression bracket to
// an Operator, mirroring the historical dogma compiler's own table.
const (
	legacyPreAssign  = 6
	legacyPreMul     = 0
	legacyPreDiv     = 1
	legacyModAdd     = 2
	legacyModSub     = 3
	legacyPostMul    = 4
	legacyPostDiv    = 5
	legacyPostPercent = 7
	legacyPostAssign = 8
)

var legacyOperandOperators = map[int]catalog.Operator{
	legacyPreAssign:   catalog.PreAssignment,
	legacyPreMul:      catalog.PreMul,
	legacyPreDiv:      catalog.PreDiv,
	legacyModAdd:      catalog.ModAdd,
	legacyModSub:      catalog.ModSub,
	legacyPostMul:     catalog.PostMul,
	legacyPostDiv:     catalog.PostDiv,
	legacyPostPercent: catalog.PostPercent,
	legacyPostAssign:  catalog.PostAssignment,
}

var legacyDomainCodes = map[int]catalog.Domain{
	0: catalog.DomainSelf,
	1: catalog.DomainCharacter,
	2: catalog.DomainShip,
	3: catalog.DomainSpace,
	4: catalog.DomainOther,
}

var legacyFilterCodes = map[int]catalog.FilterType{
	0: catalog.FilterNone,
	1: catalog.FilterAll,
	2: catalog.FilterGroup,
	3: catalog.FilterSkill,
}

// CompileLegacy translates one LegacyModifier tuple into a catalog.Modifier.
// PreOperand and PostOperand must agree on the same Operator — the legacy
// format spreads one operator across the pre- and post-expression halves
// of the same declaration, and a mismatch is a structural error.
func CompileLegacy(m LegacyModifier) (catalog.Modifier, error) {
	preOp, ok := legacyOperandOperators[m.PreOperand]
	if !ok {
		return catalog.Modifier{}, fmt.Errorf("modbuild: unknown legacy pre-operand %d", m.PreOperand)
	}
	postOp, ok := legacyOperandOperators[m.PostOperand]
	if !ok {
		return catalog.Modifier{}, fmt.Errorf("modbuild: unknown legacy post-operand %d", m.PostOperand)
	}
	if preOp != postOp {
		return catalog.Modifier{}, fmt.Errorf("modbuild: mismatched legacy pre/post operand (%v vs %v)", preOp, postOp)
	}

	domain, ok := legacyDomainCodes[m.DomainCode]
	if !ok {
		return catalog.Modifier{}, fmt.Errorf("modbuild: unresolved legacy domain code %d", m.DomainCode)
	}
	filterType, ok := legacyFilterCodes[m.FilterCode]
	if !ok {
		return catalog.Modifier{}, fmt.Errorf("modbuild: unknown legacy filter code %d", m.FilterCode)
	}

	return catalog.Modifier{
		State:       m.State,
		SrcKind:     catalog.SrcAttribute,
		SrcAttr:     catalog.AttrID(m.SrcAttrID),
		Operator:    preOp,
		TgtAttr:     catalog.AttrID(m.TgtAttrID),
		Domain:      domain,
		FilterType:  filterType,
		FilterValue: catalog.GroupOrSkillID(m.FilterValue),
	}, nil
}

// CompileEffectLegacy compiles every modifier an effect declares in the
// legacy form, logging and skipping failures.
func CompileEffectLegacy(logger *slog.Logger, itemTypeID int32, records []LegacyModifier) Result {
	var out []catalog.Modifier
	for _, rec := range records {
		mod, err := CompileLegacy(rec)
		if err != nil {
			if logger != nil {
				logger.Warn("malformed legacy modifier info on item", "item", itemTypeID, "err", err)
			}
			continue
		}
		out = append(out, mod)
	}
	return Result{Modifiers: out, Status: statusFor(len(records), len(out))}
}
