package catalog

import "fmt"

// Catalog is the immutable, process-wide static data store: types,
// effects, modifiers, and attribute metadata. It is initialized once and
// treated as read-only afterward, so concurrent Fits may read it from
// multiple goroutines without synchronization. Build one with NewCatalog
// and never mutate it afterward.
type Catalog struct {
	types      map[TypeID]*Type
	effects    map[EffectID]*Effect
	attributes map[AttrID]AttributeMetadata
}

// NewCatalog builds an empty, writable builder-view of a Catalog. Use
// AddEffect/AddAttribute/AddType (in that order, since Type derivation reads
// Effects) to populate it, then treat the result as read-only.
func NewCatalog() *Catalog {
	return &Catalog{
		types:      make(map[TypeID]*Type),
		effects:    make(map[EffectID]*Effect),
		attributes: make(map[AttrID]AttributeMetadata),
	}
}

// AddEffect registers an Effect definition.
func (c *Catalog) AddEffect(e *Effect) {
	c.effects[e.ID] = e
}

// AddAttribute registers attribute metadata.
func (c *Catalog) AddAttribute(id AttrID, meta AttributeMetadata) {
	c.attributes[id] = meta
}

// AddType constructs and registers a Type from its raw fields, resolving
// its Effects against the Effects already added to this Catalog.
func (c *Catalog) AddType(id TypeID, group GroupID, category CategoryID, attrs map[AttrID]float64, effectIDs []EffectID) *Type {
	t := NewType(id, group, category, attrs, effectIDs, c.Effect)
	c.types[id] = t
	return t
}

// Type looks up a Type by id.
func (c *Catalog) Type(id TypeID) (*Type, bool) {
	t, ok := c.types[id]
	return t, ok
}

// Effect looks up an Effect by id.
func (c *Catalog) Effect(id EffectID) (*Effect, bool) {
	e, ok := c.effects[id]
	return e, ok
}

// Attribute looks up attribute metadata by id.
func (c *Catalog) Attribute(id AttrID) (AttributeMetadata, bool) {
	meta, ok := c.attributes[id]
	return meta, ok
}

// MustType panics if the type is missing; intended for test fixtures and
// catalog-load-time consistency checks, never for per-fit request handling.
func (c *Catalog) MustType(id TypeID) *Type {
	t, ok := c.Type(id)
	if !ok {
		panic(fmt.Sprintf("catalog: unknown type %d", id))
	}
	return t
}
