// Package estimate sums direct project costs into a total.
package estimate

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// ErrInvalidInput is returned when a cost field is negative or not a finite number.
var ErrInvalidInput = errors.New("invalid cost input")

// Category names in report order.
const (
	CategoryLabor     = "Labor"
	CategoryMaterial  = "Material"
	CategoryEquipment = "Equipment"
	CategoryMisc      = "Miscellaneous"
)

// Breakdown holds the four direct cost categories of one estimate.
type Breakdown struct {
	Labor     float64 `json:"labor" toml:"labor"`
	Material  float64 `json:"material" toml:"material"`
	Equipment float64 `json:"equipment" toml:"equipment"`
	Misc      float64 `json:"misc" toml:"misc"`
}

// Category is one named amount of a Breakdown.
type Category struct {
	Name   string
	Amount float64
}

// Share is a category amount together with its fraction of the total.
type Share struct {
	Category
	Fraction float64
}

// Categories returns the breakdown as named amounts in the fixed order
// Labor, Material, Equipment, Miscellaneous.
func (b Breakdown) Categories() []Category {
	return []Category{
		{CategoryLabor, b.Labor},
		{CategoryMaterial, b.Material},
		{CategoryEquipment, b.Equipment},
		{CategoryMisc, b.Misc},
	}
}

// Validate reports the first field that is negative, NaN or infinite.
func (b Breakdown) Validate() error {
	for _, c := range b.Categories() {
		switch {
		case math.IsNaN(c.Amount) || math.IsInf(c.Amount, 0):
			return fmt.Errorf("%w: %s cost is not a finite number", ErrInvalidInput, c.Name)
		case c.Amount < 0:
			return fmt.Errorf("%w: %s cost %v is negative", ErrInvalidInput, c.Name, c.Amount)
		}
	}
	return nil
}

// ComputeTotal returns labor + material + equipment + misc.
// The sum is plain float64 addition in that order with no rounding.
func ComputeTotal(b Breakdown) (float64, error) {
	if err := b.Validate(); err != nil {
		return 0, err
	}
	return b.Labor + b.Material + b.Equipment + b.Misc, nil
}

// Shares returns each category's fraction of the total, largest first.
// Ties keep category order. Every fraction is 0 when the total is 0.
func Shares(b Breakdown) ([]Share, error) {
	total, err := ComputeTotal(b)
	if err != nil {
		return nil, err
	}

	cats := b.Categories()
	shares := make([]Share, len(cats))
	for i, c := range cats {
		shares[i] = Share{Category: c}
		if total > 0 {
			shares[i].Fraction = c.Amount / total
		}
	}

	sort.SliceStable(shares, func(i, j int) bool {
		return shares[i].Amount > shares[j].Amount
	})
	return shares, nil
}
