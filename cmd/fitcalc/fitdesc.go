package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/evefit/fitcalc/pkg/catalog"
	"github.com/evefit/fitcalc/pkg/fit"
)

// holderDescription is one holder in a fitDescription file: the JSON the
// compute/validate subcommands accept to build a *fit.Fit without a
// running server.
type holderDescription struct {
	ID         string `json:"id"`
	TypeID     int32  `json:"typeId"`
	State      int8   `json:"state"`
	SkillLevel *int   `json:"skillLevel,omitempty"`
	Pair       string `json:"pair,omitempty"`
}

// fitDescription is the on-disk shape of a --fit file: the ship and
// character singletons plus any number of other holders (modules,
// charges, drones, skills).
type fitDescription struct {
	Ship      *holderDescription  `json:"ship,omitempty"`
	Character *holderDescription  `json:"character,omitempty"`
	Holders   []holderDescription `json:"holders,omitempty"`
}

func loadFitDescription(path string) (*fitDescription, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fit description %s: %w", path, err)
	}
	var desc fitDescription
	if err := json.Unmarshal(data, &desc); err != nil {
		return nil, fmt.Errorf("parse fit description %s: %w", path, err)
	}
	return &desc, nil
}

// buildFit materializes desc against cat: creating each holder, placing
// it in a fresh *fit.Fit, applying state/skill-level, and resolving
// module<->charge pairings by ID. The returned map lets callers look a
// holder back up by the ID they gave it in the description file.
func buildFit(cat *catalog.Catalog, desc *fitDescription) (*fit.Fit, map[string]*fit.Holder, error) {
	f := fit.New(cat)
	byID := make(map[string]*fit.Holder)

	add := func(hd *holderDescription) error {
		t, ok := cat.Type(catalog.TypeID(hd.TypeID))
		if !ok {
			return fmt.Errorf("unknown type id %d", hd.TypeID)
		}
		h := fit.NewHolder(t)
		if err := f.Add(h); err != nil {
			return fmt.Errorf("add holder %q: %w", hd.ID, err)
		}
		if hd.SkillLevel != nil {
			if err := h.SetSkillLevel(*hd.SkillLevel); err != nil {
				return fmt.Errorf("set skill level on %q: %w", hd.ID, err)
			}
		}
		if err := h.SetState(catalog.State(hd.State)); err != nil {
			return fmt.Errorf("set state on %q: %w", hd.ID, err)
		}
		if hd.ID != "" {
			byID[hd.ID] = h
		}
		return nil
	}

	if desc.Ship != nil {
		if err := add(desc.Ship); err != nil {
			return nil, nil, err
		}
	}
	if desc.Character != nil {
		if err := add(desc.Character); err != nil {
			return nil, nil, err
		}
	}
	for i := range desc.Holders {
		if err := add(&desc.Holders[i]); err != nil {
			return nil, nil, err
		}
	}

	for _, hd := range desc.Holders {
		if hd.Pair == "" {
			continue
		}
		a, ok := byID[hd.ID]
		if !ok {
			continue
		}
		b, ok := byID[hd.Pair]
		if !ok {
			return nil, nil, fmt.Errorf("pair target %q not found for holder %q", hd.Pair, hd.ID)
		}
		if err := f.Pair(a, b); err != nil {
			return nil, nil, fmt.Errorf("pair %q with %q: %w", hd.ID, hd.Pair, err)
		}
	}

	if desc.Ship != nil {
		byID["ship"] = f.Ship()
	}
	if desc.Character != nil {
		byID["character"] = f.Character()
	}

	return f, byID, nil
}
