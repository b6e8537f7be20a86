package engagement

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dmcastillo/ofertazo-backend/pkg/db/models"
)

type scopeKind int

const (
	scopeDiscount scopeKind = iota
	scopeCompany
)

// Scope selects which slice of the event log an aggregation runs over: the
// events of one discount, or the events of every discount owned by one
// company. Aggregations are written once against a Scope; adding a new scope
// kind must not require touching them.
type Scope struct {
	kind   scopeKind
	target uuid.UUID
}

// DiscountScope restricts aggregation to events of a single discount.
func DiscountScope(id uuid.UUID) Scope {
	return Scope{kind: scopeDiscount, target: id}
}

// CompanyScope restricts aggregation to events of all discounts owned by the
// company. Implemented as a join so no company id is denormalized onto events.
func CompanyScope(id uuid.UUID) Scope {
	return Scope{kind: scopeCompany, target: id}
}

// events returns the base row source with the scope predicate applied. Every
// aggregation builds on this; an unknown target simply matches zero rows.
func (s Scope) events(dbc *gorm.DB) *gorm.DB {
	q := dbc.Model(&models.EngagementEvent{})
	if s.kind == scopeCompany {
		return q.
			Joins("JOIN discounts ON discounts.id = engagement_events.discount_id").
			Where("discounts.company_id = ?", s.target)
	}
	return q.Where("engagement_events.discount_id = ?", s.target)
}

// column qualifies an event column so predicates stay unambiguous once the
// company join is in play.
func column(name string) string {
	return "engagement_events." + name
}
