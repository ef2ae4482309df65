package domain

import (
	"time"

	"github.com/google/uuid"
)

// Category is a spending taxonomy entry. System defaults have no owner and
// are immutable; user categories are scoped to their owner. Deletion is a
// soft toggle so historical entries keep a resolvable reference.
type Category struct {
	ID        uuid.UUID
	OwnerID   *string // nil = system default, shared by every identity
	Name      string
	Color     string
	Icon      string
	IsDefault bool
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsSystem reports whether the category is a shared system default.
func (c Category) IsSystem() bool { return c.OwnerID == nil }

// Defaults applied when a user creates a category without color/icon.
const (
	DefaultCategoryColor = "#3b82f6"
	DefaultCategoryIcon  = "folder-outline"
)

// FallbackCategoryName is the system default used when no category fits.
const FallbackCategoryName = "Other"

// SystemCategories is the fixed seed list of shared default categories.
// Seeding is idempotent; the list is ordered the way it should display.
func SystemCategories() []Category {
	seed := []struct {
		name, color, icon string
	}{
		{"Food & Dining", "#ef4444", "restaurant-outline"},
		{"Transportation", "#3b82f6", "car-outline"},
		{"Shopping", "#8b5cf6", "bag-outline"},
		{"Entertainment", "#f59e0b", "game-controller-outline"},
		{"Bills & Utilities", "#10b981", "document-text-outline"},
		{"Healthcare", "#ec4899", "medical-outline"},
		{"Education", "#06b6d4", "school-outline"},
		{FallbackCategoryName, "#6b7280", "ellipse-outline"},
	}

	out := make([]Category, len(seed))
	for i, s := range seed {
		out[i] = Category{
			Name:      s.name,
			Color:     s.color,
			Icon:      s.icon,
			IsDefault: true,
			IsActive:  true,
		}
	}
	return out
}

// Validate checks invariants that do not require store state.
func (c Category) Validate() error {
	var errs []FieldError

	if NormalizeName(c.Name) == "" {
		errs = append(errs, FieldError{Field: "name", Message: "required"})
	}
	if len(c.Name) > 100 {
		errs = append(errs, FieldError{Field: "name", Message: "too long (max 100)"})
	}

	if len(errs) > 0 {
		return &ValidationError{Errors: errs}
	}
	return nil
}
