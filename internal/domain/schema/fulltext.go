package schema

import (
	"reflect"
	"strings"
)

// FullTextPaths returns the default searchable string paths of t.
//
// Fields tagged `fulltext:"*"` are searchable with every string leaf beneath them,
// `fulltext:"A,B"` restricts recursion to the named nested fields and `fulltext:"-"`
// excludes the field. A struct without any fulltext tags treats all fields as searchable.
// Paths deeper than the registry's depth ceiling are dropped.
func (r *Registry) FullTextPaths(t reflect.Type) []string {
	t = Indirect(t)

	r.mu.RLock()
	paths, ok := r.fullText[t]
	r.mu.RUnlock()
	if ok {
		return paths
	}

	var found []string
	if t != nil && t.Kind() == reflect.Struct {
		found = r.discover(t, nil, "", 1)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if paths, ok := r.fullText[t]; ok {
		return paths
	}
	r.fullText[t] = found
	return found
}

// discover walks t. A non-nil restrict limits the walk to the named (possibly dotted) fields.
func (r *Registry) discover(t reflect.Type, restrict []string, prefix string, depth int) []string {
	if depth > r.maxDepth {
		return nil
	}
	ti := r.info(t)
	var out []string
	for _, f := range ti.fields {
		var sub []string
		if restrict != nil {
			var ok bool
			sub, ok = narrow(restrict, f)
			if !ok {
				continue
			}
		} else {
			var ok bool
			sub, ok = f.fullText(ti.anyTagged)
			if !ok {
				continue
			}
		}
		path := f.seg.Name
		if prefix != "" {
			path = prefix + "." + f.seg.Name
		}
		switch f.seg.Kind {
		case KindString:
			out = append(out, path)
		case KindStruct:
			out = append(out, r.discover(f.seg.Type, sub, path, depth+1)...)
		}
	}
	return out
}

// fullText reports whether f takes part in unrestricted discovery and its own restriction.
func (f *field) fullText(anyTagged bool) ([]string, bool) {
	if !anyTagged {
		return nil, true
	}
	if !f.tagged || f.tag == "-" {
		return nil, false
	}
	if f.tag == "" || f.tag == "*" {
		return nil, true
	}
	return splitNames(f.tag), true
}

// narrow matches f against a restriction list and returns the restriction for its children.
// A bare name match lifts the restriction beneath that field.
func narrow(restrict []string, f *field) ([]string, bool) {
	var sub []string
	matched := false
	for _, name := range restrict {
		head, rest, nested := strings.Cut(name, ".")
		if !strings.EqualFold(head, f.seg.Name) && !strings.EqualFold(head, f.seg.Key) {
			continue
		}
		if !nested {
			return nil, true
		}
		matched = true
		sub = append(sub, rest)
	}
	return sub, matched
}

func splitNames(tag string) []string {
	var names []string
	for _, n := range strings.Split(tag, ",") {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	return names
}
