package modbuild

import (
	"testing"

	"github.com/evefit/fitcalc/pkg/catalog"
)

func TestCompileYAMLItemModifier(t *testing.T) {
	mod, err := CompileYAML(YAMLModifier{
		Func:                 "ItemModifier",
		Domain:               "shipID",
		State:                catalog.Offline,
		ModifiedAttributeID:  37,
		ModifyingAttributeID: 11,
		Operator:             catalog.OpCodePostMul,
	})
	if err != nil {
		t.Fatal(err)
	}
	if mod.Domain != catalog.DomainShip || mod.FilterType != catalog.FilterNone {
		t.Errorf("unexpected domain/filter: %+v", mod)
	}
	if mod.Operator != catalog.PostMul || mod.SrcKind != catalog.SrcAttribute || mod.SrcAttr != 11 || mod.TgtAttr != 37 {
		t.Errorf("unexpected modifier: %+v", mod)
	}
}

func TestCompileYAMLGroupFilter(t *testing.T) {
	mod, err := CompileYAML(YAMLModifier{
		Func:                 "LocationGroupModifier",
		Domain:               "shipID",
		ModifiedAttributeID:  37,
		ModifyingAttributeID: 11,
		Operator:             catalog.OpCodeModAdd,
		GroupID:              300,
	})
	if err != nil {
		t.Fatal(err)
	}
	if mod.FilterType != catalog.FilterGroup || mod.FilterValue != 300 {
		t.Errorf("unexpected filter: %+v", mod)
	}
}

func TestCompileYAMLOwnerRequiredSkill(t *testing.T) {
	mod, err := CompileYAML(YAMLModifier{
		Func:                 "OwnerRequiredSkillModifier",
		Domain:               "shipID", // ignored in favor of character domain
		ModifiedAttributeID:  37,
		ModifyingAttributeID: 11,
		Operator:             catalog.OpCodePreMul,
	})
	if err != nil {
		t.Fatal(err)
	}
	if mod.Domain != catalog.DomainCharacter {
		t.Errorf("expected domain to be forced to character, got %v", mod.Domain)
	}
	if mod.FilterValue != catalog.OwnerModifiesSelf {
		t.Errorf("expected owner-modifies-self sentinel, got %v", mod.FilterValue)
	}
}

func TestCompileYAMLUnknownOperatorIsStructuralError(t *testing.T) {
	_, err := CompileYAML(YAMLModifier{
		Func:     "ItemModifier",
		Domain:   "shipID",
		Operator: 99,
	})
	if err == nil {
		t.Fatal("expected an error for an unknown operator code")
	}
}

func TestCompileEffectYAMLPartialStatus(t *testing.T) {
	records := []YAMLModifier{
		{Func: "ItemModifier", Domain: "shipID", ModifiedAttributeID: 37, ModifyingAttributeID: 11, Operator: catalog.OpCodePostMul},
		{Func: "ItemModifier", Domain: "shipID", ModifiedAttributeID: 37, ModifyingAttributeID: 11, Operator: 123}, // bad
	}
	res := CompileEffectYAML(nil, 1, records)
	if res.Status != StatusOKPartial {
		t.Errorf("got %v, want %v", res.Status, StatusOKPartial)
	}
	if len(res.Modifiers) != 1 {
		t.Errorf("got %d modifiers, want 1", len(res.Modifiers))
	}
}

func TestCompileEffectYAMLErrorStatus(t *testing.T) {
	records := []YAMLModifier{
		{Func: "ItemModifier", Domain: "shipID", Operator: 123},
	}
	res := CompileEffectYAML(nil, 1, records)
	if res.Status != StatusError {
		t.Errorf("got %v, want %v", res.Status, StatusError)
	}
}

func TestCompileLegacyMismatchedOperands(t *testing.T) {
	_, err := CompileLegacy(LegacyModifier{
		PreOperand:  legacyPreMul,
		PostOperand: legacyModAdd,
		DomainCode:  2,
		FilterCode:  0,
	})
	if err == nil {
		t.Fatal("expected a mismatched pre/post operand error")
	}
}

func TestCompileLegacyRoundTrip(t *testing.T) {
	mod, err := CompileLegacy(LegacyModifier{
		PreOperand:  legacyPostMul,
		PostOperand: legacyPostMul,
		DomainCode:  2,
		FilterCode:  0,
		SrcAttrID:   11,
		TgtAttrID:   37,
	})
	if err != nil {
		t.Fatal(err)
	}
	if mod.Operator != catalog.PostMul || mod.Domain != catalog.DomainShip {
		t.Errorf("unexpected modifier: %+v", mod)
	}
}
