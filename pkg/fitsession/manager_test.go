package fitsession

import (
	"testing"
	"time"

	"github.com/evefit/fitcalc/pkg/catalog"
	"github.com/evefit/fitcalc/pkg/fit"
)

func testCatalog() *catalog.Catalog {
	c := catalog.NewCatalog()
	c.AddType(1, 1, catalog.CategoryShip, map[catalog.AttrID]float64{}, nil)
	return c
}

func TestManagerCreateGet(t *testing.T) {
	cfg := DefaultManagerConfig()
	cfg.CleanupInterval = time.Hour
	m := NewManager(cfg, nil)
	defer m.Close()

	cat := testCatalog()
	f := fit.New(cat)

	if err := m.Create("fit-1", f); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := m.Get("fit-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != f {
		t.Fatal("Get returned a different fit")
	}
	if m.Len() != 1 {
		t.Fatalf("Len = %d, want 1", m.Len())
	}
}

func TestManagerGetNotFound(t *testing.T) {
	m := NewManager(DefaultManagerConfig(), nil)
	defer m.Close()

	if _, err := m.Get("missing"); err != ErrNotFound {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestManagerRemove(t *testing.T) {
	m := NewManager(DefaultManagerConfig(), nil)
	defer m.Close()

	cat := testCatalog()
	m.Create("fit-1", fit.New(cat))

	if err := m.Remove("fit-1"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := m.Get("fit-1"); err != ErrNotFound {
		t.Fatalf("fit still present after Remove: %v", err)
	}
	if err := m.Remove("fit-1"); err != ErrNotFound {
		t.Fatalf("second Remove err = %v, want ErrNotFound", err)
	}
}

func TestManagerLRUEviction(t *testing.T) {
	cfg := DefaultManagerConfig()
	cfg.MaxFits = 2
	cfg.CleanupInterval = time.Hour
	m := NewManager(cfg, nil)
	defer m.Close()

	var evictedID string
	m.OnEvict(func(id string, f *fit.Fit) { evictedID = id })

	cat := testCatalog()
	m.Create("a", fit.New(cat))
	m.Create("b", fit.New(cat))
	// Touch "a" so "b" becomes the least-recently-used entry.
	if _, err := m.Get("a"); err != nil {
		t.Fatalf("Get a: %v", err)
	}
	m.Create("c", fit.New(cat))

	if evictedID != "b" {
		t.Fatalf("evicted = %q, want %q", evictedID, "b")
	}
	if m.Len() != 2 {
		t.Fatalf("Len = %d, want 2", m.Len())
	}
	if _, err := m.Get("a"); err != nil {
		t.Fatalf("a should still be present: %v", err)
	}
	if _, err := m.Get("c"); err != nil {
		t.Fatalf("c should still be present: %v", err)
	}
}

func TestManagerIdleEviction(t *testing.T) {
	cfg := ManagerConfig{
		IdleTimeout:     10 * time.Millisecond,
		CleanupInterval: 5 * time.Millisecond,
	}
	m := NewManager(cfg, nil)
	defer m.Close()

	cat := testCatalog()
	m.Create("stale", fit.New(cat))

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		// Poll with Len rather than Get: Get marks the fit as used and
		// would keep it from ever going idle.
		if m.Len() == 0 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("idle fit was never evicted")
}

func TestNewIDUnique(t *testing.T) {
	a, b := NewID(), NewID()
	if a == b {
		t.Fatal("NewID produced a duplicate")
	}
	if len(a) != 32 {
		t.Fatalf("len(NewID()) = %d, want 32 (16 bytes hex-encoded)", len(a))
	}
}
