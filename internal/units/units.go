// Package units translates between a product's packaging tiers and its
// base-unit stock count. Stock is only ever stored in base units; a
// tier is just a named multiplier with its own sell price.
package units

import (
	"fmt"

	"go-pos-local/internal/models"
)

// Tier is one sellable packaging level of a product. The base unit is
// itself a tier with Factor 1.
type Tier struct {
	UnitName string  `json:"unitName"`
	Factor   float64 `json:"factor"` // base units per tier unit
	Price    float64 `json:"price"`  // sell price per tier unit
}

// UnknownUnitError reports a unit name that no tier on the product has.
type UnknownUnitError struct {
	ProductID string
	UnitName  string
}

func (e *UnknownUnitError) Error() string {
	return fmt.Sprintf("product %s has no unit %q", e.ProductID, e.UnitName)
}

// Tiers lists every sellable tier of a product, the implicit base tier
// first, then the declared conversions in their stored order.
func Tiers(p *models.Product) []Tier {
	tiers := make([]Tier, 0, len(p.Conversions)+1)
	tiers = append(tiers, Tier{UnitName: p.Unit, Factor: 1, Price: p.SellPrice})
	for _, c := range p.Conversions {
		tiers = append(tiers, Tier{UnitName: c.UnitName, Factor: c.ConversionFactor, Price: c.SellPrice})
	}
	return tiers
}

// ResolveTier finds the tier with the given unit name. The base unit
// wins over a conversion that shadows its name.
func ResolveTier(p *models.Product, unitName string) (Tier, error) {
	for _, t := range Tiers(p) {
		if t.UnitName == unitName {
			return t, nil
		}
	}
	return Tier{}, &UnknownUnitError{ProductID: p.ID, UnitName: unitName}
}

// CanFulfill reports whether qty units of the tier fit in the
// product's current base-unit stock. The cart uses this as a UX guard;
// the commit engine re-checks against live stock and never trusts the
// cart-side answer.
func CanFulfill(p *models.Product, tier Tier, qty float64) bool {
	return qty*tier.Factor <= p.Stock
}
