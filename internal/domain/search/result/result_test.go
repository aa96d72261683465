package result

import "testing"

func TestNew(t *testing.T) {
	total := 42
	p := New(&total, []any{"a", "b"})

	n, ok := p.Count()
	if !ok || n != 42 {
		t.Errorf("Count() = %d, %v", n, ok)
	}
	if p.Len() != 2 {
		t.Errorf("Len() = %d", p.Len())
	}
	if p.Data()[1] != "b" {
		t.Errorf("Data() = %v", p.Data())
	}
}

func TestNew_NilFields(t *testing.T) {
	p := New(nil, nil)
	if _, ok := p.Count(); ok {
		t.Error("Count() should be unknown")
	}
	if p.Data() == nil {
		t.Error("Data() = nil, want empty slice")
	}
}
