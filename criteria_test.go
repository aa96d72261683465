package sieve

import (
	"errors"
	"slices"
	"testing"

	"github.com/kailas-cloud/sieve/internal/domain/criteria"
)

func TestCriteria_Node(t *testing.T) {
	tests := []struct {
		name   string
		c      *Criteria
		keys   []string
		values []string
		op     criteria.Operator
		negate bool
	}{
		{"equals", Where("Title").Equals("a", "b"), []string{"Title"}, []string{"a", "b"}, criteria.Equals, false},
		{"contains", Where("Title").Contains("a"), []string{"Title"}, []string{"a"}, criteria.Contains, false},
		{"like", Where("Title").Like("a*"), []string{"Title"}, []string{"a*"}, criteria.Wildcard, false},
		{"lt", Where("Year").Lt("2000"), []string{"Year"}, []string{"2000"}, criteria.LT, false},
		{"lte", Where("Year").Lte("2000"), []string{"Year"}, []string{"2000"}, criteria.LTE, false},
		{"gt", Where("Year").Gt("2000"), []string{"Year"}, []string{"2000"}, criteria.GT, false},
		{"gte", Where("Year").Gte("2000"), []string{"Year"}, []string{"2000"}, criteria.GTE, false},
		{"text", Text("go"), nil, []string{"go"}, criteria.Contains, false},
		{"where without op", Where("Title"), []string{"Title"}, nil, criteria.Equals, false},
		{"not", Where("Title").Equals("a").Not(), []string{"Title"}, []string{"a"}, criteria.Equals, true},
		{"double not", Where("Title").Equals("a").Not().Not(), []string{"Title"}, []string{"a"}, criteria.Equals, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, err := tt.c.Node()
			if err != nil {
				t.Fatalf("Node: %v", err)
			}
			if !slices.Equal(n.Keys(), tt.keys) {
				t.Errorf("keys = %v, want %v", n.Keys(), tt.keys)
			}
			if !slices.Equal(n.Values(), tt.values) {
				t.Errorf("values = %v, want %v", n.Values(), tt.values)
			}
			if n.Operator() != tt.op {
				t.Errorf("operator = %s, want %s", n.Operator(), tt.op)
			}
			if n.Negate() != tt.negate {
				t.Errorf("negate = %v, want %v", n.Negate(), tt.negate)
			}
		})
	}
}

func TestCriteria_Logic(t *testing.T) {
	n, err := Where("Title", "Subtitle").Contains("a", "b").AllKeys().AllValues().Node()
	if err != nil {
		t.Fatal(err)
	}
	if n.KeysLogic() != criteria.All || n.ValuesLogic() != criteria.All {
		t.Errorf("logic = %s/%s, want ALL/ALL", n.KeysLogic(), n.ValuesLogic())
	}

	n, err = Where("A").Equals("1").Or(Where("B").Equals("2"), Where("C").Equals("3")).Node()
	if err != nil {
		t.Fatal(err)
	}
	if n.ChildrenLogic() != criteria.Any || len(n.Children()) != 3 || n.HasClause() {
		t.Errorf("or node = %+v", n)
	}

	n, err = Where("A").Equals("1").And(Where("B").Equals("2")).Node()
	if err != nil {
		t.Fatal(err)
	}
	if n.ChildrenLogic() != criteria.All || len(n.Children()) != 2 {
		t.Errorf("and node = %+v", n)
	}
	if got := n.Children()[1].Keys(); !slices.Equal(got, []string{"B"}) {
		t.Errorf("second child keys = %v", got)
	}
}

func TestCriteria_NilAndDepth(t *testing.T) {
	var c *Criteria
	n, err := c.Node()
	if err != nil || !n.IsEmpty() {
		t.Errorf("nil builder = %+v, %v", n, err)
	}

	deep := Where("A").Equals("1")
	for range criteria.MaxDepth {
		deep = All(deep)
	}
	if _, err := deep.Node(); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("deep error = %v, want ErrInvalidRequest", err)
	}
}

func TestQuery_Build(t *testing.T) {
	var q *Query
	req, err := q.build(100)
	if err != nil {
		t.Fatal(err)
	}
	if !req.Root().IsEmpty() || req.Limit() != 20 {
		t.Errorf("nil query = root %+v limit %d", req.Root(), req.Limit())
	}

	req, err = NewQuery(Where("Year").Gt("2000")).
		Offset(5).Limit(500).OrderBy("Year", false).RankByMatchCount().build(50)
	if err != nil {
		t.Fatal(err)
	}
	if req.Offset() != 5 || req.Limit() != 50 || !req.RankByMatchCount() {
		t.Errorf("request = offset %d limit %d ranked %v", req.Offset(), req.Limit(), req.RankByMatchCount())
	}
	if o := req.Order(); len(o) != 1 || o[0].Key() != "Year" || o[0].Ascending() {
		t.Errorf("order = %+v", o)
	}

	if req, _ := NewQuery(nil).Limit(-1).build(100); req.Limit() != 20 {
		t.Errorf("negative limit = %d, want default 20", req.Limit())
	}
	if _, err := NewQuery(nil).Offset(-1).build(100); !errors.Is(err, ErrInvalidRequest) {
		t.Errorf("negative offset error = %v", err)
	}
}
