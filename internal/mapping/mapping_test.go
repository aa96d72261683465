package mapping

import (
	"reflect"
	"strings"
	"testing"

	"github.com/kailas-cloud/sieve/internal/domain/schema"
)

type ListingView struct {
	Title  string
	Seller string
	Price  float64
}

type listingRow struct {
	Name     string
	SellerID string
	Price    float64
}

var (
	viewType = reflect.TypeFor[ListingView]()
	rowType  = reflect.TypeFor[listingRow]()
)

const doc = `
mappings:
  - surface: ListingView
    storage: listingRow
    fields:
      Title: Name
      seller: SellerID
`

func TestLoad_Lookup(t *testing.T) {
	tbl := New()
	if err := tbl.Load(strings.NewReader(doc)); err != nil {
		t.Fatalf("Load: %v", err)
	}

	tests := []struct {
		field  string
		want   string
		wantOK bool
	}{
		{"Title", "Name", true},
		{"Seller", "SellerID", true},
		{"Price", "", false},
	}
	for _, tt := range tests {
		got, ok := tbl.Lookup(viewType, rowType, tt.field)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("Lookup(%q) = %q, %v; want %q, %v", tt.field, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestLookup_IdentityFallback(t *testing.T) {
	tbl := New(WithIdentity(nil))
	if err := tbl.Load(strings.NewReader(doc)); err != nil {
		t.Fatal(err)
	}
	if got, ok := tbl.Lookup(viewType, rowType, "price"); !ok || got != "Price" {
		t.Errorf("identity Lookup(price) = %q, %v", got, ok)
	}
	if _, ok := tbl.Lookup(viewType, rowType, "Missing"); ok {
		t.Error("identity fallback must not invent fields")
	}
}

func TestLookup_PointerTypes(t *testing.T) {
	tbl := New()
	tbl.Add("ListingView", "listingRow", map[string]string{"Title": "Name"})
	got, ok := tbl.Lookup(reflect.TypeFor[*ListingView](), reflect.TypeFor[*listingRow](), "Title")
	if !ok || got != "Name" {
		t.Errorf("Lookup via pointers = %q, %v", got, ok)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"missing storage", "mappings:\n  - surface: A\n    fields: {X: Y}\n"},
		{"bad identifier", "mappings:\n  - surface: A\n    storage: B\n    fields: {\"X Y\": Z}\n"},
		{"unknown key", "mapping: []\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := New().Load(strings.NewReader(tt.doc)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestLoad_EmptyTargetDropsField(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"quoted empty", "mappings:\n  - surface: ListingView\n    storage: listingRow\n    fields:\n      Title: Name\n      Price: \"\"\n"},
		{"null", "mappings:\n  - surface: ListingView\n    storage: listingRow\n    fields:\n      Title: Name\n      Price:\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl := New(WithIdentity(nil))
			if err := tbl.Load(strings.NewReader(tt.doc)); err != nil {
				t.Fatalf("Load: %v", err)
			}
			if got, ok := tbl.Lookup(viewType, rowType, "Price"); ok || got != "" {
				t.Errorf("Lookup(Price) = %q, %v; want dropped", got, ok)
			}
			if got, ok := tbl.Lookup(viewType, rowType, "Title"); !ok || got != "Name" {
				t.Errorf("Lookup(Title) = %q, %v", got, ok)
			}
		})
	}
}

func TestLoad_EmptyTargetDropsTranslatedSegment(t *testing.T) {
	tbl := New()
	doc := "mappings:\n  - surface: ListingView\n    storage: listingRow\n    fields:\n      Title: Name\n      Seller: \"\"\n"
	if err := tbl.Load(strings.NewReader(doc)); err != nil {
		t.Fatalf("Load: %v", err)
	}
	tr := schema.NewTranslator(schema.NewRegistry(), tbl)
	if got := tr.Translate("Seller", viewType, rowType); got != "" {
		t.Errorf("Translate(Seller) = %q, want dropped", got)
	}
}

func TestLoad_Empty(t *testing.T) {
	if err := New().Load(strings.NewReader("")); err != nil {
		t.Fatalf("empty file: %v", err)
	}
}

func TestTable_DrivesTranslator(t *testing.T) {
	tbl := New(WithIdentity(nil))
	if err := tbl.Load(strings.NewReader(doc)); err != nil {
		t.Fatal(err)
	}
	tr := schema.NewTranslator(schema.NewRegistry(), tbl)
	if got := tr.Translate("title", viewType, rowType); got != "Name" {
		t.Errorf("Translate(title) = %q, want Name", got)
	}
	if got := tr.Translate("Price", viewType, rowType); got != "Price" {
		t.Errorf("Translate(Price) = %q, want Price", got)
	}
}
