package modbuild

import (
	"fmt"
	"log/slog"

	"github.com/evefit/fitcalc/pkg/catalog"
)

// YAMLModifier is one record of the newer build form: func, domain,
// modifiedAttributeID, modifyingAttributeID, operator, and an optional
// group/skill filter. Func selects the domain/filter shape the way the
// EVE dogma effect compiler names its modifier kinds; Domain is the raw
// domain token the record carries alongside it.
type YAMLModifier struct {
	Func                  string
	Domain                string
	State                 catalog.State
	ModifiedAttributeID   int32
	ModifyingAttributeID  int32
	Operator              int
	GroupID               int32
	SkillTypeID           int32
	// ValueLiteral, when Func marks a constant-source modifier, carries the
	// constant directly instead of reading ModifyingAttributeID from the
	// source holder.
	HasValueLiteral bool
	ValueLiteral    float64
}

var yamlDomainTokens = map[string]catalog.Domain{
	"itemID": catalog.DomainSelf,
	"shipID": catalog.DomainShip,
	"charID": catalog.DomainCharacter,
	"spaceID": catalog.DomainSpace,
	"other":  catalog.DomainOther,
}

// yamlFuncFilters maps the well-known dogma modifier-builder function
// names to the filter type they imply on the resolved root.
var yamlFuncFilters = map[string]catalog.FilterType{
	"ItemModifier":                  catalog.FilterNone,
	"LocationModifier":              catalog.FilterAll,
	"LocationGroupModifier":         catalog.FilterGroup,
	"LocationRequiredSkillModifier": catalog.FilterSkill,
	"OwnerRequiredSkillModifier":    catalog.FilterSkill,
}

// CompileYAML translates one YAMLModifier record into a catalog.Modifier.
// It returns an error for any structural problem (unknown operator,
// source type, domain, or filter type), which the caller
// (CompileEffectYAML) logs and drops.
func CompileYAML(m YAMLModifier) (catalog.Modifier, error) {
	op, ok := catalog.OperatorFromCode(m.Operator)
	if !ok {
		return catalog.Modifier{}, fmt.Errorf("modbuild: unknown operator code %d", m.Operator)
	}

	domain, ok := yamlDomainTokens[m.Domain]
	if !ok {
		return catalog.Modifier{}, fmt.Errorf("modbuild: unresolved domain token %q", m.Domain)
	}

	filterType, ok := yamlFuncFilters[m.Func]
	if !ok {
		return catalog.Modifier{}, fmt.Errorf("modbuild: unknown modifier func %q", m.Func)
	}

	var filterValue catalog.GroupOrSkillID
	switch filterType {
	case catalog.FilterGroup:
		filterValue = catalog.GroupOrSkillID(m.GroupID)
	case catalog.FilterSkill:
		if m.Func == "OwnerRequiredSkillModifier" {
			domain = catalog.DomainCharacter
			filterValue = catalog.OwnerModifiesSelf
		} else {
			filterValue = catalog.GroupOrSkillID(m.SkillTypeID)
		}
	}

	mod := catalog.Modifier{
		State:       m.State,
		Operator:    op,
		TgtAttr:     catalog.AttrID(m.ModifiedAttributeID),
		Domain:      domain,
		FilterType:  filterType,
		FilterValue: filterValue,
	}

	if m.HasValueLiteral {
		mod.SrcKind = catalog.SrcValue
		mod.SrcValue = m.ValueLiteral
	} else {
		mod.SrcKind = catalog.SrcAttribute
		mod.SrcAttr = catalog.AttrID(m.ModifyingAttributeID)
	}

	return mod, nil
}

// CompileEffectYAML compiles every modifier an effect declares, logging
// and skipping any that fail, and reports the aggregate Status.
func CompileEffectYAML(logger *slog.Logger, itemTypeID int32, records []YAMLModifier) Result {
	var out []catalog.Modifier
	for _, rec := range records {
		mod, err := CompileYAML(rec)
		if err != nil {
			if logger != nil {
				logger.Warn("malformed modifier info on item", "item", itemTypeID, "err", err)
			}
			continue
		}
		out = append(out, mod)
	}
	return Result{Modifiers: out, Status: statusFor(len(records), len(out))}
}
