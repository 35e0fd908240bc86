// Package pricing derives the per-coach ticket price shown to
// customers before they select seats.
package pricing

import (
	"math"

	"github.com/ticketgo/ticketgo/internal/model"
)

// UnitPriceCents returns the departure's unit ticket price:
// coefficient times the base price of the departure's FIRST coach.
// The rule is coach-set-wide, not per selected coach; callers must
// pass the departure's full coach list in id order. A nil coefficient
// counts as 1 and an empty coach list as base price 0.
func UnitPriceCents(dep *model.Departure, departureCoaches []model.Coach) uint32 {
	var base uint32
	if len(departureCoaches) > 0 {
		base = departureCoaches[0].BasePriceCents
	}
	coeff := 1.0
	if dep != nil && dep.Coefficient != nil {
		coeff = *dep.Coefficient
	}
	if coeff < 0 {
		coeff = 0
	}
	v := math.Round(coeff * float64(base))
	if v > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(v)
}
