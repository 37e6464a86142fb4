package tracker

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

// Normalize trims the name and validates the input.
func (in CreateItemInput) Normalize() (CreateItemInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validateName(in.Name); err != nil {
		return in, err
	}
	if err := validateCategory(in.Category); err != nil {
		return in, err
	}
	if in.OrderIndex != nil && *in.OrderIndex < 0 {
		return in, invalid("order_index must be non-negative")
	}
	return in, nil
}

func (in UpdateItemInput) Normalize() (UpdateItemInput, error) {
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if err := validateName(name); err != nil {
			return in, err
		}
		in.Name = &name
	}
	if err := validateCategory(in.Category); err != nil {
		return in, err
	}
	if in.OrderIndex != nil && *in.OrderIndex < 0 {
		return in, invalid("order_index must be non-negative")
	}
	return in, nil
}

func validateName(name string) error {
	if name == "" {
		return invalid("name is required")
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return invalid("name must be at most %d characters", MaxNameLength)
	}
	return nil
}

func validateCategory(category *string) error {
	if category != nil && utf8.RuneCountInString(*category) > MaxCategoryLength {
		return invalid("category must be at most %d characters", MaxCategoryLength)
	}
	return nil
}

func (in UpsertCheckInput) Validate() error {
	if in.WeeklyItemID <= 0 {
		return invalid("weekly_item_id is required")
	}
	if in.Date.IsZero() {
		return invalid("date is required")
	}
	if !in.Status.Valid() {
		return invalid("status must be 0, 1 or 2")
	}
	if in.Minutes != nil && *in.Minutes < 0 {
		return invalid("minutes must be non-negative")
	}
	if in.Note != nil && utf8.RuneCountInString(*in.Note) > MaxNoteLength {
		return invalid("note must be at most %d characters", MaxNoteLength)
	}
	return nil
}

// Apply overwrites only the fields present in the patch.
func (in UpdateItemInput) Apply(item *WeeklyItem) {
	if in.Name != nil {
		item.Name = *in.Name
	}
	if in.Category != nil {
		category := *in.Category
		item.Category = &category
	}
	if in.OrderIndex != nil {
		item.OrderIndex = *in.OrderIndex
	}
}
