package result

// Page is one window of matching records.
type Page struct {
	count *int
	data  []any
}

// New creates a page. A nil count means the total was not computed.
func New(count *int, data []any) Page {
	if data == nil {
		data = []any{}
	}
	return Page{count: count, data: data}
}

// Count returns the total number of matches, if known.
func (p *Page) Count() (int, bool) {
	if p.count == nil {
		return 0, false
	}
	return *p.count, true
}

// Data returns the records in the page.
func (p *Page) Data() []any { return p.data }

// Len returns the number of records in the page.
func (p *Page) Len() int { return len(p.data) }
