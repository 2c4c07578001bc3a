package fit

import (
	"testing"

	"github.com/evefit/fitcalc/pkg/catalog"
)

// Scenario 6 / state monotonicity: a modifier with state=active only
// contributes once its source holder reaches Active, and reverting the
// holder's state below that floor restores the pre-activation value
// bit-for-bit.
func TestStateGateActivation(t *testing.T) {
	c := newTestCatalog()
	c.AddAttribute(attrTgt, catalog.AttributeMetadata{Stackable: true, HighIsGood: true})

	eff := catalog.NewEffect(1, catalog.EffectActive, []catalog.Modifier{
		{State: catalog.Active, SrcKind: catalog.SrcValue, SrcValue: 5, Operator: catalog.ModAdd, TgtAttr: attrTgt, Domain: catalog.DomainShip, FilterType: catalog.FilterNone},
	})
	c.AddEffect(eff)

	shipType := c.AddType(1, 1, catalog.CategoryShip, map[catalog.AttrID]float64{attrTgt: 10}, nil)
	moduleType := c.AddType(2, 1, catalog.CategoryModule, nil, []catalog.EffectID{1})

	f := New(c)
	ship := NewHolder(shipType)
	module := NewHolder(moduleType)
	if err := f.Add(ship); err != nil {
		t.Fatal(err)
	}
	if err := f.Add(module); err != nil {
		t.Fatal(err)
	}

	if module.Type.MaxState() != catalog.Active {
		t.Fatalf("module max_state = %v, want active", module.Type.MaxState())
	}

	v, err := ship.Get(attrTgt)
	if err != nil {
		t.Fatal(err)
	}
	if !almostEqual(v, 10) {
		t.Fatalf("offline: got %v, want 10", v)
	}

	if err := module.SetState(catalog.Online); err != nil {
		t.Fatal(err)
	}
	v, err = ship.Get(attrTgt)
	if err != nil {
		t.Fatal(err)
	}
	if !almostEqual(v, 10) {
		t.Fatalf("online: got %v, want 10 (modifier still below its state floor)", v)
	}

	if err := module.SetState(catalog.Active); err != nil {
		t.Fatal(err)
	}
	v, err = ship.Get(attrTgt)
	if err != nil {
		t.Fatal(err)
	}
	if !almostEqual(v, 15) {
		t.Fatalf("active: got %v, want 15", v)
	}

	if err := module.SetState(catalog.Online); err != nil {
		t.Fatal(err)
	}
	v, err = ship.Get(attrTgt)
	if err != nil {
		t.Fatal(err)
	}
	if !almostEqual(v, 10) {
		t.Fatalf("reverted to online: got %v, want 10 (bit-identical to initial)", v)
	}
}

func TestSetStateAboveMaxFails(t *testing.T) {
	c := newTestCatalog()
	typ := c.AddType(1, 1, catalog.CategoryModule, nil, nil)
	h := NewHolder(typ)
	if err := h.SetState(catalog.Online); err == nil {
		t.Fatal("expected ErrInvalidState")
	} else if err != ErrInvalidState {
		t.Fatalf("got %v, want ErrInvalidState", err)
	}
}

func TestDisableEffectDeactivatesModifier(t *testing.T) {
	c := newTestCatalog()
	c.AddAttribute(attrTgt, catalog.AttributeMetadata{Stackable: true, HighIsGood: true})
	eff := catalog.NewEffect(1, catalog.EffectPassive, []catalog.Modifier{
		{State: catalog.Offline, SrcKind: catalog.SrcValue, SrcValue: 5, Operator: catalog.ModAdd, TgtAttr: attrTgt, Domain: catalog.DomainShip, FilterType: catalog.FilterNone},
	})
	c.AddEffect(eff)
	shipType := c.AddType(1, 1, catalog.CategoryShip, map[catalog.AttrID]float64{attrTgt: 10}, nil)
	moduleType := c.AddType(2, 1, catalog.CategoryModule, nil, []catalog.EffectID{1})

	f := New(c)
	ship := NewHolder(shipType)
	module := NewHolder(moduleType)
	if err := f.Add(ship); err != nil {
		t.Fatal(err)
	}
	if err := f.Add(module); err != nil {
		t.Fatal(err)
	}

	v, err := ship.Get(attrTgt)
	if err != nil {
		t.Fatal(err)
	}
	if !almostEqual(v, 15) {
		t.Fatalf("got %v, want 15", v)
	}

	module.DisableEffect(1)
	v, err = ship.Get(attrTgt)
	if err != nil {
		t.Fatal(err)
	}
	if !almostEqual(v, 10) {
		t.Fatalf("after disable: got %v, want 10", v)
	}

	module.EnableEffect(1)
	v, err = ship.Get(attrTgt)
	if err != nil {
		t.Fatal(err)
	}
	if !almostEqual(v, 15) {
		t.Fatalf("after re-enable: got %v, want 15", v)
	}
}
