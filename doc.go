// Package sieve compiles declarative search criteria against Go struct schemas and
// runs them over in-process collections.
//
// Criteria are trees of clauses. A clause names one or more field paths (keys), one
// or more values and an operator; keysLogic and valuesLogic decide how the
// key × value comparisons combine, and children combine by childrenLogic.
//
//	client, _ := sieve.New()
//	_ = client.Register("books", books)
//
//	q := sieve.NewQuery(
//	    sieve.Where("Title").Contains("go").
//	        And(sieve.Where("Year").Gte("2015")),
//	).OrderBy("Year", false).Limit(10)
//
//	page, _ := client.Search(ctx, "books", q)
//	for _, b := range sieve.Items[Book](page) {
//	    fmt.Println(b.Title)
//	}
//
// Paths are dotted Go field names or JSON keys, matched case-insensitively.
// A path crossing a slice matches when any element matches.
//
// # Surface views
//
// A collection can be searched through a view type whose fields are renamed:
//
//	client, _ := sieve.New(sieve.WithMapping("Listing", "Book", map[string]string{
//	    "Name": "Title",
//	}))
//	_ = client.Register("library", books, sieve.AsView[Listing]())
//
// # Full-text search
//
// A clause without keys searches every default string path of the schema.
// Fields tagged `fulltext:"*"` opt in, `fulltext:"-"` opts out and
// `fulltext:"A,B"` limits recursion into a nested struct.
package sieve
