package request

import (
	"reflect"
	"strings"
	"testing"

	"github.com/kailas-cloud/sieve/internal/domain/criteria"
)

func TestNew_Defaults(t *testing.T) {
	r, err := New(Params{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Limit() != DefaultLimit {
		t.Errorf("Limit() = %d, want %d", r.Limit(), DefaultLimit)
	}
	if r.Offset() != 0 {
		t.Errorf("Offset() = %d", r.Offset())
	}
	if r.RankByMatchCount() {
		t.Error("RankByMatchCount() = true")
	}
	if !r.Root().IsEmpty() {
		t.Error("Root() should be empty")
	}
}

func TestNew_LimitClamping(t *testing.T) {
	tests := []struct {
		name         string
		limit        int
		defaultLimit int
		maxLimit     int
		want         int
	}{
		{"explicit", 5, 0, 0, 5},
		{"above max", 500, 0, 0, MaxLimit},
		{"custom max", 80, 0, 50, 50},
		{"default below custom max", 0, 0, 10, 10},
		{"negative", -3, 0, 0, DefaultLimit},
		{"custom default", 0, 7, 0, 7},
		{"custom default above max", 0, 70, 50, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := New(Params{Limit: tt.limit, DefaultLimit: tt.defaultLimit, MaxLimit: tt.maxLimit})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if r.Limit() != tt.want {
				t.Errorf("Limit() = %d, want %d", r.Limit(), tt.want)
			}
		})
	}
}

func TestNew_NegativeOffset(t *testing.T) {
	_, err := New(Params{Offset: -1})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "offset") {
		t.Errorf("error = %q", err)
	}
}

func TestNew_ExplicitValues(t *testing.T) {
	root := criteria.MustNew(criteria.Params{Keys: []string{"Title"}, Values: []string{"go"}})
	o, err := NewOrder("Year", false)
	if err != nil {
		t.Fatalf("NewOrder: %v", err)
	}
	r, err := New(Params{Root: root, Offset: 40, Limit: 10, Order: []Order{o}, RankByMatchCount: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Offset() != 40 || r.Limit() != 10 || !r.RankByMatchCount() {
		t.Errorf("got offset=%d limit=%d rank=%v", r.Offset(), r.Limit(), r.RankByMatchCount())
	}
	if len(r.Order()) != 1 || r.Order()[0].Key() != "Year" || r.Order()[0].Ascending() {
		t.Errorf("Order() = %+v", r.Order())
	}
	if r.Root().Keys()[0] != "Title" {
		t.Errorf("Root().Keys() = %v", r.Root().Keys())
	}
}

func TestNewOrder_EmptyKey(t *testing.T) {
	if _, err := NewOrder("", true); err == nil {
		t.Fatal("expected error")
	}
}

func TestRequest_WithCopies(t *testing.T) {
	r, _ := New(Params{Limit: 7})
	o, _ := NewOrder("Title", true)
	root := criteria.MustNew(criteria.Params{Values: []string{"x"}})

	r2 := r.WithRoot(root).WithOrder([]Order{o})
	if r2.Limit() != 7 {
		t.Errorf("Limit() = %d, want 7", r2.Limit())
	}
	if r.Root().HasClause() || len(r.Order()) != 0 {
		t.Error("original request was modified")
	}
	if !r2.Root().HasClause() || len(r2.Order()) != 1 {
		t.Error("derived request missing replacements")
	}
}

func TestRequest_ValueMethodSet(t *testing.T) {
	value := reflect.TypeFor[Request]()
	pointer := reflect.TypeFor[*Request]()
	if value.NumMethod() != pointer.NumMethod() {
		t.Errorf("Request has %d methods, *Request has %d", value.NumMethod(), pointer.NumMethod())
	}

	r, _ := New(Params{Offset: 3, Limit: 9, RankByMatchCount: true})
	if got := r.WithOrder(nil).Offset(); got != 3 {
		t.Errorf("Offset() on derived value = %d, want 3", got)
	}
	if !r.WithRoot(criteria.Node{}).RankByMatchCount() {
		t.Error("RankByMatchCount() lost on derived value")
	}
}
