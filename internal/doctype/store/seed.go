package store

import (
	"context"
	"errors"
	"fmt"

	"customer-service/internal/doctype/models"
	"customer-service/pkg/platform/sentinel"
)

// Creator is satisfied by both stores.
type Creator interface {
	Create(ctx context.Context, dt *models.DocType) error
}

// Defaults are the document types every deployment starts with.
var Defaults = []models.DocType{
	{Name: "Passport", Description: "Government-issued passport"},
	{Name: "National ID", Description: "National identity card"},
	{Name: "Driving Licence", Description: "Driving licence with photo"},
	{Name: "Utility Bill", Description: "Proof of address, issued within three months"},
}

// SeedDefaults inserts the default types. Types that already exist are left
// alone, so seeding on every start is safe.
func SeedDefaults(ctx context.Context, s Creator) error {
	for _, d := range Defaults {
		dt := d
		if err := s.Create(ctx, &dt); err != nil && !errors.Is(err, sentinel.ErrConflict) {
			return fmt.Errorf("seed doc type %q: %w", d.Name, err)
		}
	}
	return nil
}
