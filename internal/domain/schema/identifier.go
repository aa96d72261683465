package schema

import "github.com/kailas-cloud/sieve/internal/domain"

// ValidateIdentifier rejects field paths with characters outside [A-Za-z0-9_.].
func ValidateIdentifier(path string) error {
	if path == "" {
		return &domain.InvalidIdentifierError{Path: path}
	}
	for i := 0; i < len(path); i++ {
		c := path[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_', c == '.':
		default:
			return &domain.InvalidIdentifierError{Path: path}
		}
	}
	return nil
}
