package domain

import (
	"errors"
	"strings"
	"time"
)

type Category string

const (
	CategoryBaseball   Category = "BASEBALL"
	CategorySoccer     Category = "SOCCER"
	CategoryBasketball Category = "BASKETBALL"
	CategoryVolleyball Category = "VOLLEYBALL"
	CategoryESports    Category = "E_SPORTS"
)

var ErrUnknownCategory = errors.New("domain: unknown category")

// Categories lists every category in display order.
var Categories = []Category{
	CategoryBaseball,
	CategorySoccer,
	CategoryBasketball,
	CategoryVolleyball,
	CategoryESports,
}

// ParseCategory accepts a category name in any case.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range Categories {
		if c == known {
			return c, nil
		}
	}
	return "", ErrUnknownCategory
}

type Game struct {
	ID        string
	Category  Category
	Title     string
	Home      string
	Away      string
	Place     string
	StartedAt time.Time

	Timestamps
}

// Page is one slice of an ordered listing.
type Page[T any] struct {
	Items      []T
	Page       int // zero based
	Size       int
	TotalItems int
}

// TotalPages is the number of pages of Size needed for TotalItems.
func (p Page[T]) TotalPages() int {
	if p.Size <= 0 {
		return 0
	}
	return (p.TotalItems + p.Size - 1) / p.Size
}
