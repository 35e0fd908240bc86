package model

import (
	"strings"
	"time"
)

// CoachCategory is the closed set of coach classes sold by the system.
type CoachCategory string

const (
	CategorySeating   CoachCategory = "seating"
	CategorySleeper   CoachCategory = "sleeper"
	CategoryLimousine CoachCategory = "limousine"
)

// categoryAliases maps raw category labels, as they appear in
// administrative data or search filters, onto the closed enumeration.
var categoryAliases = map[string]CoachCategory{
	"seating":   CategorySeating,
	"seat":      CategorySeating,
	"chair":     CategorySeating,
	"sleeper":   CategorySleeper,
	"berth":     CategorySleeper,
	"bed":       CategorySleeper,
	"limousine": CategoryLimousine,
	"limo":      CategoryLimousine,
}

// NormalizeCategory resolves a raw label to a CoachCategory.  The
// second return value reports whether the label was recognized.
func NormalizeCategory(raw string) (CoachCategory, bool) {
	c, ok := categoryAliases[strings.ToLower(strings.TrimSpace(raw))]
	return c, ok
}

// Coach belongs to exactly one departure and owns an ordered set of
// seats.  DepartureID is nullable: a coach that has not been scheduled
// yet cannot be sold.
//
// Fields:
//  ID             – primary key identifier.
//  DepartureID    – owning departure (nil when unscheduled).
//  Name           – coach label within the train.
//  Category       – seating class (see CoachCategory).
//  BasePriceCents – base ticket price in cents.
type Coach struct {
	ID             uint64    // coaches.id
	DepartureID    *uint64   // coaches.departure_id (nullable)
	Name           string    // coaches.name
	Category       string    // coaches.category
	BasePriceCents uint32    // coaches.base_price_cents
	CreatedAt      time.Time // coaches.created_at
	UpdatedAt      time.Time // coaches.updated_at
}
