package specification

import "gorm.io/gorm"

// Specification defines the interface for query specifications
type Specification interface {
	Apply(db *gorm.DB) *gorm.DB
}

// Matcher is implemented by specifications that can also be evaluated
// against an entity held in memory.
type Matcher interface {
	Matches(record any) bool
}

// Orderer is implemented by specifications that sort in-memory results.
type Orderer interface {
	Less(a, b any) bool
}

// MatchAll reports whether record satisfies every spec that implements Matcher.
// Specs without in-memory semantics are ignored.
func MatchAll(record any, specs ...Specification) bool {
	for _, s := range specs {
		if m, ok := s.(Matcher); ok && !m.Matches(record) {
			return false
		}
	}
	return true
}
