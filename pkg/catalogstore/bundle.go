package catalogstore

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/evefit/fitcalc/pkg/catalog"
)

// Bundle is the on-disk/on-S3 JSON shape a catalog is serialized as. It
// mirrors pkg/catalog's own field names directly rather than introducing
// a parallel DTO vocabulary.
type Bundle struct {
	Attributes []attributeRecord `json:"attributes"`
	Effects    []effectRecord    `json:"effects"`
	Types      []typeRecord      `json:"types"`
}

type attributeRecord struct {
	ID             int32   `json:"id"`
	Stackable      bool    `json:"stackable"`
	HighIsGood     bool    `json:"highIsGood"`
	MaxAttributeID *int32  `json:"maxAttributeID,omitempty"`
	DefaultValue   float64 `json:"defaultValue"`
}

type modifierRecord struct {
	State       int8    `json:"state"`
	Scope       int8    `json:"scope"`
	SrcIsValue  bool    `json:"srcIsValue"`
	SrcAttr     int32   `json:"srcAttr,omitempty"`
	SrcValue    float64 `json:"srcValue,omitempty"`
	Operator    int8    `json:"operator"`
	TgtAttr     int32   `json:"tgtAttr"`
	Domain      int8    `json:"domain"`
	FilterType  int8    `json:"filterType"`
	FilterValue int32   `json:"filterValue,omitempty"`
}

type effectRecord struct {
	ID        int32            `json:"id"`
	Category  int8             `json:"category"`
	Modifiers []modifierRecord `json:"modifiers"`
}

type typeRecord struct {
	ID         int32             `json:"id"`
	GroupID    int32             `json:"groupID"`
	CategoryID int32             `json:"categoryID"`
	Attributes map[int32]float64 `json:"attributes"`
	Effects    []int32           `json:"effects"`
}

// ParseBundle decodes a JSON-encoded Bundle.
func ParseBundle(data []byte) (Bundle, error) {
	var b Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		return Bundle{}, fmt.Errorf("catalogstore: decode bundle: %w", err)
	}
	return b, nil
}

// Build constructs an immutable catalog.Catalog from a parsed Bundle.
// Effects and attributes are registered before types, since Type
// derivation (max_state, slots) needs to resolve effect ids.
func Build(b Bundle) *catalog.Catalog {
	c := catalog.NewCatalog()

	for _, a := range b.Attributes {
		meta := catalog.AttributeMetadata{
			Stackable:    a.Stackable,
			HighIsGood:   a.HighIsGood,
			DefaultValue: a.DefaultValue,
		}
		if a.MaxAttributeID != nil {
			meta.HasMax = true
			meta.MaxAttributeID = catalog.AttrID(*a.MaxAttributeID)
		}
		c.AddAttribute(catalog.AttrID(a.ID), meta)
	}

	for _, e := range b.Effects {
		mods := make([]catalog.Modifier, 0, len(e.Modifiers))
		for _, m := range e.Modifiers {
			op, ok := catalog.OperatorFromCode(int(m.Operator))
			if !ok {
				slog.Warn("catalogstore: skipping modifier with unknown operator code", "effect", e.ID, "operator", m.Operator)
				continue
			}
			mod := catalog.Modifier{
				State:       catalog.State(m.State),
				Scope:       catalog.Scope(m.Scope),
				Operator:    op,
				TgtAttr:     catalog.AttrID(m.TgtAttr),
				Domain:      catalog.Domain(m.Domain),
				FilterType:  catalog.FilterType(m.FilterType),
				FilterValue: catalog.GroupOrSkillID(m.FilterValue),
			}
			if m.SrcIsValue {
				mod.SrcKind = catalog.SrcValue
				mod.SrcValue = m.SrcValue
			} else {
				mod.SrcKind = catalog.SrcAttribute
				mod.SrcAttr = catalog.AttrID(m.SrcAttr)
			}
			mods = append(mods, mod)
		}
		c.AddEffect(catalog.NewEffect(catalog.EffectID(e.ID), catalog.EffectCategory(e.Category), mods))
	}

	for _, t := range b.Types {
		attrs := make(map[catalog.AttrID]float64, len(t.Attributes))
		for id, v := range t.Attributes {
			attrs[catalog.AttrID(id)] = v
		}
		effects := make([]catalog.EffectID, 0, len(t.Effects))
		for _, eid := range t.Effects {
			effects = append(effects, catalog.EffectID(eid))
		}
		c.AddType(catalog.TypeID(t.ID), catalog.GroupID(t.GroupID), catalog.CategoryID(t.CategoryID), attrs, effects)
	}

	return c
}
