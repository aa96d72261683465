// Package books is the reference schema served by the sieve binaries: books with a
// nested author and a collection of reviews, plus a flattened view with renamed fields.
package books

import (
	"context"
	"fmt"
	"reflect"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kailas-cloud/sieve/internal/mapping"
)

// Collection names.
const (
	Collection     = "books"
	ViewCollection = "library"
)

// Author is embedded in every book.
type Author struct {
	ID      uuid.UUID `json:"id" fulltext:"-"`
	Name    string    `json:"name"`
	Country string    `json:"country"`
}

// Review is one reader review.
type Review struct {
	Reviewer string    `json:"reviewer"`
	Stars    int       `json:"stars"`
	Body     string    `json:"body"`
	Posted   time.Time `json:"posted"`
}

// Book is the storage record.
type Book struct {
	ID        uuid.UUID       `json:"id"`
	Title     string          `json:"title" fulltext:"*"`
	Subtitle  *string         `json:"subtitle,omitempty" fulltext:"*"`
	ISBN      string          `json:"isbn"`
	Author    Author          `json:"author" fulltext:"Name"`
	Tags      []string        `json:"tags" fulltext:"*"`
	Year      int             `json:"year"`
	Pages     uint            `json:"pages"`
	Price     decimal.Decimal `json:"price"`
	Rating    float64         `json:"rating"`
	InPrint   bool            `json:"inPrint"`
	Published time.Time       `json:"published"`
	Reviews   []Review        `json:"reviews" fulltext:"Body"`
}

// Writer is the surface view of Author.
type Writer struct {
	FullName string `json:"fullName"`
	Nation   string `json:"nation"`
}

// Note is the surface view of Review.
type Note struct {
	By    string `json:"by"`
	Score int    `json:"score"`
	Text  string `json:"text"`
}

// Listing is the surface view of Book exposed by the library collection.
type Listing struct {
	Key     uuid.UUID       `json:"key"`
	Name    string          `json:"name"`
	Writer  Writer          `json:"writer"`
	Labels  []string        `json:"labels"`
	Year    int             `json:"year"`
	Cost    decimal.Decimal `json:"cost"`
	Notes   []Note          `json:"notes"`
	Shelved bool            `json:"shelved"`
}

// Types.
var (
	BookType    = reflect.TypeFor[Book]()
	ListingType = reflect.TypeFor[Listing]()
)

// Mapping returns the Listing -> Book correspondences.
func Mapping() []mapping.Entry {
	return []mapping.Entry{
		{
			Surface: "Listing",
			Storage: "Book",
			Fields: map[string]string{
				"Key":    "ID",
				"Name":   "Title",
				"Writer": "Author",
				"Labels": "Tags",
				"Cost":   "Price",
				"Notes":  "Reviews",
			},
		},
		{Surface: "Writer", Storage: "Author", Fields: map[string]string{"FullName": "Name", "Nation": "Country"}},
		{Surface: "Note", Storage: "Review", Fields: map[string]string{"By": "Reviewer", "Score": "Stars", "Text": "Body"}},
	}
}

// Table builds a mapping table with the Listing correspondences and identity fallback.
func Table() *mapping.Table {
	t := mapping.New(mapping.WithIdentity(nil))
	for _, e := range Mapping() {
		t.Add(e.Surface, e.Storage, e.Fields)
	}
	return t
}

// Putter stores one record.
type Putter interface {
	Put(ctx context.Context, collection, id string, record any) error
}

// Seed writes the fixtures into p under the books collection.
func Seed(ctx context.Context, p Putter) error {
	for _, b := range Fixtures() {
		if err := p.Put(ctx, Collection, b.ID.String(), b); err != nil {
			return fmt.Errorf("seed %s: %w", b.ID, err)
		}
	}
	return nil
}
