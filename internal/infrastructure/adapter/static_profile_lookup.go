package adapter

import (
	"context"
	"fmt"

	"github.com/bibbank/purchase-approval/internal/domain/port"
)

// SeedProfiles are the financial profiles the service ships with for
// development and demos. -1 marks an ineligible customer.
func SeedProfiles() map[string]int {
	return map[string]int{
		"12345678901": -1,
		"99999999999": 8,
		"12345678923": 10,
		"12345678999": 40,
		"12345678912": 50,
		"12345678945": 100,
		"12345678956": 378,
		"12345678934": 500,
	}
}

// StaticProfileLookup resolves capacity factors from an in-memory table.
// It implements port.CapacityLookup.
type StaticProfileLookup struct {
	profiles map[string]int
}

// NewStaticProfileLookup copies profiles into a new lookup.
func NewStaticProfileLookup(profiles map[string]int) *StaticProfileLookup {
	cp := make(map[string]int, len(profiles))
	for id, factor := range profiles {
		cp[id] = factor
	}
	return &StaticProfileLookup{profiles: cp}
}

func (l *StaticProfileLookup) CapacityFactor(_ context.Context, personalID string) (int, error) {
	factor, ok := l.profiles[personalID]
	if !ok {
		return 0, fmt.Errorf("%w: personal ID %s", port.ErrUnknownCustomer, personalID)
	}
	return factor, nil
}
