// Package account classifies identifiers into the tiers that price their
// quota allowances.
package account

import "context"

// Type is an account classification.
type Type string

const (
	// TypeFree is the metered default tier: finite daily ceilings apply.
	TypeFree Type = "free"
	// TypePro is a premium class with no daily ceilings.
	TypePro Type = "pro"
	// TypeBusiness is a premium class with no daily ceilings.
	TypeBusiness Type = "business"
)

// Metered reports whether daily ceilings apply to the account class.
// Unknown classes count as metered so a bad value never unlocks unlimited
// usage.
func (t Type) Metered() bool {
	switch t {
	case TypePro, TypeBusiness:
		return false
	default:
		return true
	}
}

// Lookup resolves the account class for an identifier. The quota engine is a
// pure function of the resolved class; it never manages account state itself.
type Lookup interface {
	AccountType(ctx context.Context, identifier string) (Type, error)
}

// StaticLookup is a fixed in-memory Lookup for tests and development.
// Identifiers without an entry resolve to the free tier.
type StaticLookup struct {
	types map[string]Type
}

// NewStaticLookup creates a lookup over a fixed identifier-to-type table.
func NewStaticLookup(types map[string]Type) *StaticLookup {
	if types == nil {
		types = make(map[string]Type)
	}

	return &StaticLookup{types: types}
}

func (s *StaticLookup) AccountType(_ context.Context, identifier string) (Type, error) {
	if t, ok := s.types[identifier]; ok {
		return t, nil
	}

	return TypeFree, nil
}

// Compile-time check.
var _ Lookup = (*StaticLookup)(nil)
