package fit

import (
	"math"
	"testing"

	"github.com/evefit/fitcalc/pkg/catalog"
)

const (
	attrTgt   catalog.AttrID = 10
	attrBonus catalog.AttrID = 40
	attrPower catalog.AttrID = 30
	attrCap   catalog.AttrID = 20
)

func newTestCatalog() *catalog.Catalog {
	return catalog.NewCatalog()
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// Scenario 1: single post-percent from attribute.
func TestPostPercentFromAttribute(t *testing.T) {
	c := newTestCatalog()
	c.AddAttribute(attrTgt, catalog.AttributeMetadata{Stackable: true, HighIsGood: true})
	eff := catalog.NewEffect(1, catalog.EffectPassive, []catalog.Modifier{
		{State: catalog.Offline, SrcKind: catalog.SrcAttribute, SrcAttr: attrBonus, Operator: catalog.PostPercent, TgtAttr: attrTgt, Domain: catalog.DomainSelf, FilterType: catalog.FilterNone},
	})
	c.AddEffect(eff)
	typ := c.AddType(1, 1, catalog.CategoryModule, map[catalog.AttrID]float64{attrTgt: 100, attrBonus: 20}, []catalog.EffectID{1})

	f := New(c)
	h := NewHolder(typ)
	if err := f.Add(h); err != nil {
		t.Fatal(err)
	}

	v, err := h.Get(attrTgt)
	if err != nil {
		t.Fatal(err)
	}
	if !almostEqual(v, 120) {
		t.Errorf("got %v, want 120", v)
	}

	// Idempotent read.
	v2, err := h.Get(attrTgt)
	if err != nil {
		t.Fatal(err)
	}
	if v2 != v {
		t.Errorf("second read = %v, want %v", v2, v)
	}
}

func buildStackingFit(t *testing.T, sourceCategory catalog.CategoryID) (*Fit, *Holder) {
	t.Helper()
	c := newTestCatalog()
	c.AddAttribute(attrTgt, catalog.AttributeMetadata{Stackable: false, HighIsGood: true})

	modEff := catalog.NewEffect(1, catalog.EffectPassive, []catalog.Modifier{
		{State: catalog.Offline, SrcKind: catalog.SrcAttribute, SrcAttr: attrPower, Operator: catalog.PostMul, TgtAttr: attrTgt, Domain: catalog.DomainShip, FilterType: catalog.FilterNone},
	})
	c.AddEffect(modEff)

	shipType := c.AddType(1, 1, catalog.CategoryShip, map[catalog.AttrID]float64{attrTgt: 10}, nil)
	srcType := c.AddType(2, 1, sourceCategory, map[catalog.AttrID]float64{attrPower: 1.1}, []catalog.EffectID{1})

	f := New(c)
	ship := NewHolder(shipType)
	if err := f.Add(ship); err != nil {
		t.Fatal(err)
	}
	a := NewHolder(srcType)
	if err := f.Add(a); err != nil {
		t.Fatal(err)
	}
	b := NewHolder(srcType)
	if err := f.Add(b); err != nil {
		t.Fatal(err)
	}
	return f, ship
}

// Scenario 2: non-stackable double post-mul from a non-exempt category.
func TestNonStackableDoublePostMul(t *testing.T) {
	f, ship := buildStackingFit(t, catalog.CategoryModule)
	v, err := ship.Get(attrTgt)
	if err != nil {
		t.Fatal(err)
	}
	want := 10 * (1 + 0.1*math.Pow(stackingPenaltyBase, 0)) * (1 + 0.1*math.Pow(stackingPenaltyBase, 1))
	if !almostEqual(v, want) {
		t.Errorf("got %v, want %v", v, want)
	}
	_ = f
}

// Scenario 3: stacking-exempt source (implant) — no penalty.
func TestStackingExemptSource(t *testing.T) {
	_, ship := buildStackingFit(t, catalog.CategoryImplant)
	v, err := ship.Get(attrTgt)
	if err != nil {
		t.Fatal(err)
	}
	if !almostEqual(v, 12.1) {
		t.Errorf("got %v, want 12.1", v)
	}
}

// Scenario 4: mixed operators, order sensitive.
func TestMixedOperatorsOrderSensitive(t *testing.T) {
	c := newTestCatalog()
	c.AddAttribute(attrTgt, catalog.AttributeMetadata{Stackable: true, HighIsGood: true})
	eff := catalog.NewEffect(1, catalog.EffectPassive, []catalog.Modifier{
		{State: catalog.Offline, SrcKind: catalog.SrcValue, SrcValue: 2, Operator: catalog.PreMul, TgtAttr: attrTgt, Domain: catalog.DomainSelf},
		{State: catalog.Offline, SrcKind: catalog.SrcValue, SrcValue: 5, Operator: catalog.ModAdd, TgtAttr: attrTgt, Domain: catalog.DomainSelf},
		{State: catalog.Offline, SrcKind: catalog.SrcValue, SrcValue: 3, Operator: catalog.PostMul, TgtAttr: attrTgt, Domain: catalog.DomainSelf},
	})
	c.AddEffect(eff)
	typ := c.AddType(1, 1, catalog.CategoryModule, map[catalog.AttrID]float64{attrTgt: 10}, []catalog.EffectID{1})

	f := New(c)
	h := NewHolder(typ)
	if err := f.Add(h); err != nil {
		t.Fatal(err)
	}

	v, err := h.Get(attrTgt)
	if err != nil {
		t.Fatal(err)
	}
	if !almostEqual(v, 75) {
		t.Errorf("got %v, want 75", v)
	}
}

// Scenario 5: capping clamps the value.
func TestCapClampsValue(t *testing.T) {
	c := newTestCatalog()
	c.AddAttribute(attrTgt, catalog.AttributeMetadata{Stackable: true, HighIsGood: true, HasMax: true, MaxAttributeID: attrCap})
	typ := c.AddType(1, 1, catalog.CategoryModule, map[catalog.AttrID]float64{attrTgt: 1000, attrCap: 50}, nil)

	f := New(c)
	h := NewHolder(typ)
	if err := f.Add(h); err != nil {
		t.Fatal(err)
	}

	v, err := h.Get(attrTgt)
	if err != nil {
		t.Fatal(err)
	}
	if !almostEqual(v, 50) {
		t.Errorf("got %v, want 50 (capped)", v)
	}
}

// Unit-level: invalidating a cap attribute cascades to the value it caps.
func TestAttributeMapCapCascade(t *testing.T) {
	m := newAttributeMap()
	m.memoize(attrTgt, 50, attrCap, true)
	m.memoize(attrCap, 50, 0, false)

	if _, ok := m.lookup(attrTgt); !ok {
		t.Fatal("expected attrTgt to be cached")
	}
	m.invalidate(attrCap)
	if _, ok := m.lookup(attrTgt); ok {
		t.Error("expected attrTgt to be invalidated when its cap attribute was invalidated")
	}
}

// Self-reference containment: domain=self, filter=none affects only its
// own holder.
func TestSelfReferenceContainment(t *testing.T) {
	c := newTestCatalog()
	c.AddAttribute(attrTgt, catalog.AttributeMetadata{Stackable: true, HighIsGood: true})
	eff := catalog.NewEffect(1, catalog.EffectPassive, []catalog.Modifier{
		{State: catalog.Offline, SrcKind: catalog.SrcValue, SrcValue: 5, Operator: catalog.ModAdd, TgtAttr: attrTgt, Domain: catalog.DomainSelf, FilterType: catalog.FilterNone},
	})
	c.AddEffect(eff)
	typ := c.AddType(1, 1, catalog.CategoryModule, map[catalog.AttrID]float64{attrTgt: 10}, []catalog.EffectID{1})

	f := New(c)
	a := NewHolder(typ)
	b := NewHolder(typ)
	if err := f.Add(a); err != nil {
		t.Fatal(err)
	}
	if err := f.Add(b); err != nil {
		t.Fatal(err)
	}

	va, err := a.Get(attrTgt)
	if err != nil {
		t.Fatal(err)
	}
	if !almostEqual(va, 15) {
		t.Errorf("a: got %v, want 15", va)
	}
	vb, err := b.Get(attrTgt)
	if err != nil {
		t.Fatal(err)
	}
	if !almostEqual(vb, 15) {
		t.Errorf("b: got %v, want 15 (its own self-modifier, not a's)", vb)
	}
}

// Independence: mutating one holder does not change an unrelated holder's
// cached value.
func TestIndependence(t *testing.T) {
	c := newTestCatalog()
	c.AddAttribute(attrTgt, catalog.AttributeMetadata{Stackable: true, HighIsGood: true})
	typ := c.AddType(1, 1, catalog.CategorySkill, map[catalog.AttrID]float64{attrTgt: 10}, nil)

	f := New(c)
	a := NewHolder(typ)
	b := NewHolder(typ)
	if err := f.Add(a); err != nil {
		t.Fatal(err)
	}
	if err := f.Add(b); err != nil {
		t.Fatal(err)
	}

	if _, err := a.Get(attrTgt); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Get(attrTgt); err != nil {
		t.Fatal(err)
	}
	if err := a.SetSkillLevel(5); err != nil {
		t.Fatal(err)
	}
	vb, err := b.Get(attrTgt)
	if err != nil {
		t.Fatal(err)
	}
	if !almostEqual(vb, 10) {
		t.Errorf("b changed after mutating a: got %v, want 10", vb)
	}
}

// Cyclic attribute references must not hang or stack-overflow; re-entry
// yields the base value and contributes no modifier.
func TestCyclicReferenceDoesNotHang(t *testing.T) {
	const attrA catalog.AttrID = 50
	const attrB catalog.AttrID = 51

	c := newTestCatalog()
	c.AddAttribute(attrA, catalog.AttributeMetadata{Stackable: true, HighIsGood: true})
	c.AddAttribute(attrB, catalog.AttributeMetadata{Stackable: true, HighIsGood: true})

	eff := catalog.NewEffect(1, catalog.EffectPassive, []catalog.Modifier{
		{State: catalog.Offline, SrcKind: catalog.SrcAttribute, SrcAttr: attrB, Operator: catalog.ModAdd, TgtAttr: attrA, Domain: catalog.DomainSelf},
		{State: catalog.Offline, SrcKind: catalog.SrcAttribute, SrcAttr: attrA, Operator: catalog.ModAdd, TgtAttr: attrB, Domain: catalog.DomainSelf},
	})
	c.AddEffect(eff)
	typ := c.AddType(1, 1, catalog.CategoryModule, map[catalog.AttrID]float64{attrA: 1, attrB: 2}, []catalog.EffectID{1})

	f := New(c)
	h := NewHolder(typ)
	if err := f.Add(h); err != nil {
		t.Fatal(err)
	}

	// attrA = base(1) + attrB; attrB's own computation re-enters attrA and
	// must fall back to attrA's base (1) rather than recursing forever.
	va, err := h.Get(attrA)
	if err != nil {
		t.Fatal(err)
	}
	// attrB = base(2) + attrA-base(1) = 3; attrA = base(1) + attrB(3) = 4.
	if !almostEqual(va, 4) {
		t.Errorf("got %v, want 4", va)
	}
}
