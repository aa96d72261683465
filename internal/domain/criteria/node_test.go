package criteria

import (
	"strings"
	"testing"
)

func TestNew_Defaults(t *testing.T) {
	n, err := New(Params{Keys: []string{"Title"}, Values: []string{"go"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.Operator() != Equals {
		t.Errorf("Operator() = %q, want EQUALS", n.Operator())
	}
	if n.KeysLogic() != Any {
		t.Errorf("KeysLogic() = %q, want ANY", n.KeysLogic())
	}
	if n.ValuesLogic() != Any {
		t.Errorf("ValuesLogic() = %q, want ANY", n.ValuesLogic())
	}
	if n.ChildrenLogic() != All {
		t.Errorf("ChildrenLogic() = %q, want ALL", n.ChildrenLogic())
	}
	if n.Negate() {
		t.Error("Negate() = true")
	}
}

func TestNew_ZeroValueNodeHasDefaults(t *testing.T) {
	var n Node
	if n.Operator() != Equals || n.ChildrenLogic() != All {
		t.Errorf("zero node: op=%q childrenLogic=%q", n.Operator(), n.ChildrenLogic())
	}
	if !n.IsEmpty() {
		t.Error("zero node should be empty")
	}
}

func TestNew_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		params Params
		errMsg string
	}{
		{"bad operator", Params{Operator: "LIKE"}, "invalid operator"},
		{"bad keys logic", Params{KeysLogic: "SOME"}, "invalid logic"},
		{"bad values logic", Params{ValuesLogic: "NONE"}, "invalid logic"},
		{"bad children logic", Params{ChildrenLogic: "XOR"}, "invalid logic"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.params)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("error = %q, want containing %q", err, tt.errMsg)
			}
		})
	}
}

func TestNew_TooDeep(t *testing.T) {
	n := MustNew(Params{Keys: []string{"a"}, Values: []string{"1"}})
	for range MaxDepth {
		n = MustNew(Params{Children: []Node{n}})
	}
	if _, err := New(Params{Children: []Node{n}}); err == nil {
		t.Fatal("expected depth error")
	}
}

func TestNew_CopiesSlices(t *testing.T) {
	keys := []string{"a"}
	n := MustNew(Params{Keys: keys, Values: []string{"1"}})
	keys[0] = "b"
	if n.Keys()[0] != "a" {
		t.Errorf("Keys()[0] = %q, node must not alias input", n.Keys()[0])
	}
}

func TestNode_Shape(t *testing.T) {
	leaf := MustNew(Params{Keys: []string{"a"}, Values: []string{"1"}})
	fullText := MustNew(Params{Values: []string{"go"}})
	group := MustNew(Params{Children: []Node{leaf}})

	tests := []struct {
		name     string
		n        Node
		empty    bool
		clause   bool
		fullText bool
		depth    int
	}{
		{"empty", MustNew(Params{}), true, false, false, 1},
		{"leaf", leaf, false, true, false, 1},
		{"full text", fullText, false, true, true, 1},
		{"keys only", MustNew(Params{Keys: []string{"a"}}), false, true, false, 1},
		{"group", group, false, false, false, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.n.IsEmpty(); got != tt.empty {
				t.Errorf("IsEmpty() = %v, want %v", got, tt.empty)
			}
			if got := tt.n.HasClause(); got != tt.clause {
				t.Errorf("HasClause() = %v, want %v", got, tt.clause)
			}
			if got := tt.n.IsFullText(); got != tt.fullText {
				t.Errorf("IsFullText() = %v, want %v", got, tt.fullText)
			}
			if got := tt.n.Depth(); got != tt.depth {
				t.Errorf("Depth() = %d, want %d", got, tt.depth)
			}
		})
	}
}

func TestNode_DerivedCopies(t *testing.T) {
	n := MustNew(Params{Keys: []string{"a"}, Values: []string{"1"}, Negate: true, KeysLogic: All})
	m := n.WithKeys([]string{"b", "c"}).WithKeysLogic(Any)
	if n.Keys()[0] != "a" || n.KeysLogic() != All {
		t.Error("original node was modified")
	}
	if len(m.Keys()) != 2 || m.KeysLogic() != Any || !m.Negate() {
		t.Errorf("derived node = keys %v logic %q negate %v", m.Keys(), m.KeysLogic(), m.Negate())
	}

	parent := MustNew(Params{Keys: []string{"x"}, Values: []string{"y"}, Negate: true})
	withKids := parent.WithChildren([]Node{n})
	if len(withKids.Children()) != 1 || len(parent.Children()) != 0 {
		t.Error("WithChildren must copy")
	}
	clause := withKids.Clause()
	if clause.Negate() || len(clause.Children()) != 0 || clause.Keys()[0] != "x" {
		t.Errorf("Clause() = %+v", clause)
	}
}

func TestParseOperator(t *testing.T) {
	tests := []struct {
		in      string
		want    Operator
		wantErr bool
	}{
		{"", Equals, false},
		{"contains", Contains, false},
		{" Wildcard ", Wildcard, false},
		{"gte", GTE, false},
		{"between", "", true},
	}
	for _, tt := range tests {
		got, err := ParseOperator(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseOperator(%q) err = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseOperator(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseLogic(t *testing.T) {
	if l, err := ParseLogic("", All); err != nil || l != All {
		t.Errorf("ParseLogic(\"\") = %q, %v", l, err)
	}
	if l, err := ParseLogic("any", All); err != nil || l != Any {
		t.Errorf("ParseLogic(any) = %q, %v", l, err)
	}
	if _, err := ParseLogic("both", All); err == nil {
		t.Error("expected error")
	}
}

func TestOperator_IsPattern(t *testing.T) {
	if !Contains.IsPattern() || !Wildcard.IsPattern() {
		t.Error("CONTAINS and WILDCARD are pattern operators")
	}
	if Equals.IsPattern() || LT.IsPattern() {
		t.Error("EQUALS and LT are not pattern operators")
	}
}
