package sieve

import (
	"reflect"

	"go.uber.org/zap"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type mappingPair struct {
	surface string
	storage string
	fields  map[string]string
}

type clientConfig struct {
	maxLimit      int
	fullTextDepth int
	identity      bool

	mappings     []mappingPair
	mappingFiles []string

	logger *zap.Logger
}

// WithMaxLimit caps the page size. Default: 100.
func WithMaxLimit(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxLimit = n
	})
}

// WithFullTextDepth sets how deep full-text discovery descends into nested structs.
// Default: 10.
func WithFullTextDepth(depth int) Option {
	return optionFunc(func(c *clientConfig) {
		c.fullTextDepth = depth
	})
}

// WithMapping declares field correspondences between a surface type and a storage
// type, both named by their Go type name.
func WithMapping(surface, storage string, fields map[string]string) Option {
	return optionFunc(func(c *clientConfig) {
		c.mappings = append(c.mappings, mappingPair{surface: surface, storage: storage, fields: fields})
	})
}

// WithMappingFile loads field correspondences from a YAML file.
func WithMappingFile(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.mappingFiles = append(c.mappingFiles, path)
	})
}

// WithoutIdentityMapping disables the same-name fallback for unmapped view fields.
func WithoutIdentityMapping() Option {
	return optionFunc(func(c *clientConfig) {
		c.identity = false
	})
}

// WithLogger enables structured logging of compiled and rejected searches.
// Pass nil to disable (default).
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// CollectionOption configures a registered collection.
type CollectionOption func(*collectionConfig)

type collectionConfig struct {
	surface reflect.Type
	idField string
}

// AsView makes callers write criteria against T instead of the record type.
// Paths are translated through the client's mappings.
func AsView[T any]() CollectionOption {
	return func(c *collectionConfig) {
		c.surface = reflect.TypeFor[T]()
	}
}

// WithIDField sets the record path used by IndexOf. Default: "ID".
func WithIDField(path string) CollectionOption {
	return func(c *collectionConfig) {
		c.idField = path
	}
}
