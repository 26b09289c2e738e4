package domain

import (
	"slices"
	"time"
)

// DefaultCurrency is used when a project is created without one.
const DefaultCurrency = "USD"

type Project struct {
	ID        string
	Name      string  `validate:"required"`
	Budget    float64 `validate:"gte=0"`
	Currency  string  `validate:"required,len=3,uppercase"`
	OwnerID   string
	Resources []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate checks the project's own fields.
func (p *Project) Validate() error {
	if err := structValidator.Struct(p); err != nil {
		return validationError("project", err)
	}
	return nil
}

// HasResource reports whether name is one of the project's resources.
func (p *Project) HasResource(name string) bool {
	return slices.Contains(p.Resources, name)
}

// DisplayID returns the first 8 characters of the ID.
func (p *Project) DisplayID() string {
	if len(p.ID) >= 8 {
		return p.ID[:8]
	}
	return p.ID
}
