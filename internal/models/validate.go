package models

import (
	"strings"

	"portfolio-admin/internal/fault"
)

// Form-layer checks. Controllers never call these; the dashboard and CLI do
// before handing a draft over. Image presence is checked by the controller
// after the optional upload, so it is not required here.

const (
	MinRating = 1
	MaxRating = 5
)

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fault.Invalid(field, "is required")
	}
	return nil
}

func rating(value int) error {
	if value < MinRating || value > MaxRating {
		return fault.Invalid("rating", "must be between 1 and 5")
	}
	return nil
}

func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

func (in ProductInput) Validate() error {
	if err := firstError(
		required("name", in.Name),
		required("description", in.Description),
	); err != nil {
		return err
	}
	if in.Price < 0 {
		return fault.Invalid("price", "must not be negative")
	}
	if !in.Category.Valid() {
		return fault.Invalid("category", "must be one of fitness, movies, business")
	}
	return nil
}

func (in ReviewInput) Validate() error {
	return firstError(
		required("name", in.Name),
		required("product", in.Product),
		required("review", in.Review),
		rating(in.Rating),
	)
}

func (in MovieInput) Validate() error {
	return firstError(
		required("title", in.Title),
		required("year", in.Year),
		required("vision", in.Vision),
		rating(in.Rating),
	)
}

func (in FitnessInput) Validate() error {
	return firstError(
		required("year", in.Year),
		required("milestone", in.Milestone),
		required("description", in.Description),
	)
}
