package health

import "context"

// EnginePinger checks execution backend availability.
type EnginePinger interface {
	Ping(ctx context.Context) error
}

// CollectionCounter reports how many collections are registered.
type CollectionCounter interface {
	Len() int
}
