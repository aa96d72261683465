package books

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Fixture ids.
var (
	GoProgrammingID = uuid.MustParse("0b7c5f1e-1d7a-4c41-9a7e-0a5d5a2c0001")
	ConcurrencyID   = uuid.MustParse("0b7c5f1e-1d7a-4c41-9a7e-0a5d5a2c0002")
	DistributedID   = uuid.MustParse("0b7c5f1e-1d7a-4c41-9a7e-0a5d5a2c0003")
	CookingID       = uuid.MustParse("0b7c5f1e-1d7a-4c41-9a7e-0a5d5a2c0004")
	PoetryID        = uuid.MustParse("0b7c5f1e-1d7a-4c41-9a7e-0a5d5a2c0005")
	NetworkingID    = uuid.MustParse("0b7c5f1e-1d7a-4c41-9a7e-0a5d5a2c0006")
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ptr[T any](v T) *T { return &v }

// Fixtures returns the reference records in insertion order.
func Fixtures() []Book {
	kernighan := Author{ID: uuid.MustParse("5f0c1a52-0000-4000-8000-000000000001"), Name: "Brian Kernighan", Country: "CA"}
	cox := Author{ID: uuid.MustParse("5f0c1a52-0000-4000-8000-000000000002"), Name: "Katherine Cox-Buday", Country: "US"}
	kleppmann := Author{ID: uuid.MustParse("5f0c1a52-0000-4000-8000-000000000003"), Name: "Martin Kleppmann", Country: "GB"}
	hazan := Author{ID: uuid.MustParse("5f0c1a52-0000-4000-8000-000000000004"), Name: "Marcella Hazan", Country: "IT"}
	oliver := Author{ID: uuid.MustParse("5f0c1a52-0000-4000-8000-000000000005"), Name: "Mary Oliver", Country: "US"}
	stevens := Author{ID: uuid.MustParse("5f0c1a52-0000-4000-8000-000000000006"), Name: "W. Richard Stevens", Country: "US"}

	return []Book{
		{
			ID: GoProgrammingID, Title: "The Go Programming Language", ISBN: "978-0134190440",
			Author: kernighan, Tags: []string{"go", "programming"},
			Year: 2015, Pages: 380, Price: decimal.RequireFromString("34.99"), Rating: 4.7, InPrint: true,
			Published: date(2015, time.October, 26),
			Reviews: []Review{
				{Reviewer: "ana", Stars: 5, Body: "The reference for Go idioms", Posted: date(2016, time.January, 3)},
				{Reviewer: "raj", Stars: 4, Body: "Dense but rewarding", Posted: date(2017, time.May, 9)},
			},
		},
		{
			ID: ConcurrencyID, Title: "Concurrency in Go", Subtitle: ptr("Tools and Techniques for Developers"),
			ISBN: "978-1491941195", Author: cox, Tags: []string{"go", "concurrency"},
			Year: 2017, Pages: 238, Price: decimal.RequireFromString("39.99"), Rating: 4.5, InPrint: true,
			Published: date(2017, time.August, 1),
			Reviews: []Review{
				{Reviewer: "lee", Stars: 5, Body: "Channels finally make sense", Posted: date(2018, time.March, 14)},
			},
		},
		{
			ID: DistributedID, Title: "Designing Data-Intensive Applications", ISBN: "978-1449373320",
			Author: kleppmann, Tags: []string{"databases", "distributed"},
			Year: 2017, Pages: 616, Price: decimal.RequireFromString("44.50"), Rating: 4.8, InPrint: true,
			Published: date(2017, time.March, 16),
			Reviews: []Review{
				{Reviewer: "ana", Stars: 5, Body: "Every backend engineer should read it", Posted: date(2019, time.July, 2)},
				{Reviewer: "tom", Stars: 3, Body: "Long, some chapters drag", Posted: date(2020, time.February, 20)},
			},
		},
		{
			ID: CookingID, Title: "Essentials of Classic Italian Cooking", ISBN: "978-0394584041",
			Author: hazan, Tags: []string{"cooking"},
			Year: 1992, Pages: 688, Price: decimal.RequireFromString("25.00"), Rating: 4.9, InPrint: true,
			Published: date(1992, time.October, 13),
		},
		{
			ID: PoetryID, Title: "Devotions", Author: oliver, Tags: []string{"poetry"},
			ISBN: "978-0399563249", Year: 2017, Pages: 480, Price: decimal.RequireFromString("18.00"),
			Rating: 4.9, InPrint: false, Published: date(2017, time.October, 10),
			Reviews: []Review{
				{Reviewer: "mia", Stars: 5, Body: "Quiet and luminous", Posted: date(2018, time.December, 24)},
			},
		},
		{
			ID: NetworkingID, Title: "UNIX Network Programming", Subtitle: ptr("The Sockets Networking API"),
			ISBN: "978-0131411555", Author: stevens, Tags: []string{"networking", "programming", "c"},
			Year: 2003, Pages: 1024, Price: decimal.RequireFromString("69.99"), Rating: 4.6, InPrint: false,
			Published: date(2003, time.November, 24),
			Reviews: []Review{
				{Reviewer: "raj", Stars: 4, Body: "Still the sockets bible", Posted: date(2010, time.June, 1)},
			},
		},
	}
}
