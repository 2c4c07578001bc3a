package fitserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/evefit/fitcalc/pkg/catalog"
)

// buildTestCatalog wires one module type with a flat +20 mod-add effect
// on attribute 100, active at Offline.
func buildTestCatalog() *catalog.Catalog {
	c := catalog.NewCatalog()
	c.AddAttribute(100, catalog.AttributeMetadata{Stackable: true, HighIsGood: true})

	mod := catalog.Modifier{
		State:      catalog.Offline,
		Scope:      catalog.ScopeLocal,
		SrcKind:    catalog.SrcValue,
		SrcValue:   20,
		Operator:   catalog.ModAdd,
		TgtAttr:    100,
		Domain:     catalog.DomainSelf,
		FilterType: catalog.FilterNone,
	}
	c.AddEffect(catalog.NewEffect(1, catalog.EffectPassive, []catalog.Modifier{mod}))
	c.AddType(1, 1, catalog.CategoryModule, map[catalog.AttrID]float64{100: 10}, []catalog.EffectID{1})
	return c
}

func newTestServer() *Server {
	cfg := DefaultServerConfig()
	cfg.Sessions.CleanupInterval = 0
	return New(buildTestCatalog(), cfg, nil, nil)
}

func TestServerCreateAddReadValidate(t *testing.T) {
	s := newTestServer()
	ts := httptest.NewServer(s.Router())
	defer ts.Close()

	var created createFitResponse
	doJSON(t, ts.URL+"/fits", http.MethodPost, nil, http.StatusCreated, &created)
	if created.ID == "" {
		t.Fatal("expected non-empty fit id")
	}

	var holder addHolderResponse
	doJSON(t, ts.URL+"/fits/"+created.ID+"/holders", http.MethodPost,
		addHolderRequest{TypeID: 1}, http.StatusCreated, &holder)
	if holder.ID == "" {
		t.Fatal("expected non-empty holder id")
	}

	var attr attributeResponse
	doJSON(t, ts.URL+"/holders/"+holder.ID+"/attributes/100", http.MethodGet, nil, http.StatusOK, &attr)
	if attr.Value != 30 {
		t.Fatalf("attribute value = %v, want 30", attr.Value)
	}

	var validation validateResponse
	doJSON(t, ts.URL+"/fits/"+created.ID+"/validate", http.MethodGet, nil, http.StatusOK, &validation)
	if !validation.OK {
		t.Fatalf("expected validation to pass, got %+v", validation)
	}
}

func TestServerGetAttributeUnknownHolder(t *testing.T) {
	s := newTestServer()
	ts := httptest.NewServer(s.Router())
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/holders/missing/attributes/100")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
}

func TestServerSetStateGatesModifier(t *testing.T) {
	cat := catalog.NewCatalog()
	cat.AddAttribute(100, catalog.AttributeMetadata{Stackable: true, HighIsGood: true})
	mod := catalog.Modifier{
		State:      catalog.Active,
		Scope:      catalog.ScopeLocal,
		SrcKind:    catalog.SrcValue,
		SrcValue:   5,
		Operator:   catalog.ModAdd,
		TgtAttr:    100,
		Domain:     catalog.DomainSelf,
		FilterType: catalog.FilterNone,
	}
	cat.AddEffect(catalog.NewEffect(1, catalog.EffectActive, []catalog.Modifier{mod}))
	cat.AddType(1, 1, catalog.CategoryModule, map[catalog.AttrID]float64{100: 10}, []catalog.EffectID{1})

	cfg := DefaultServerConfig()
	cfg.Sessions.CleanupInterval = 0
	s := New(cat, cfg, nil, nil)
	ts := httptest.NewServer(s.Router())
	defer ts.Close()

	var created createFitResponse
	doJSON(t, ts.URL+"/fits", http.MethodPost, nil, http.StatusCreated, &created)
	var holder addHolderResponse
	doJSON(t, ts.URL+"/fits/"+created.ID+"/holders", http.MethodPost,
		addHolderRequest{TypeID: 1}, http.StatusCreated, &holder)

	var before attributeResponse
	doJSON(t, ts.URL+"/holders/"+holder.ID+"/attributes/100", http.MethodGet, nil, http.StatusOK, &before)
	if before.Value != 10 {
		t.Fatalf("before state change = %v, want 10", before.Value)
	}

	doJSON(t, ts.URL+"/holders/"+holder.ID+"/state", http.MethodPatch,
		setStateRequest{State: int8(catalog.Active)}, http.StatusNoContent, nil)

	var after attributeResponse
	doJSON(t, ts.URL+"/holders/"+holder.ID+"/attributes/100", http.MethodGet, nil, http.StatusOK, &after)
	if after.Value != 15 {
		t.Fatalf("after state change = %v, want 15", after.Value)
	}
}

func doJSON(t *testing.T, url, method string, body any, wantStatus int, out any) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		t.Fatalf("%s %s: status = %d, want %d", method, url, resp.StatusCode, wantStatus)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
}
