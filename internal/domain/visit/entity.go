package visit

import "time"

type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

type Decision string

const (
	DecisionUndecided     Decision = "undecided"
	DecisionInterested    Decision = "interested"
	DecisionNotInterested Decision = "not_interested"
)

func (d Decision) Valid() bool {
	switch d {
	case DecisionInterested, DecisionNotInterested:
		return true
	}
	return false
}

type Party string

const (
	PartyTenant Party = "tenant"
	PartyOwner  Party = "owner"
)

// Visit is one tenant's viewing of one listing. The two decision columns are
// independently writable, each by its own party; MatchedAt is set exactly
// once, by whichever submission first observes mutual interest.
type Visit struct {
	ID               int64      `gorm:"column:id;primaryKey" json:"id"`
	ListingID        int64      `gorm:"column:listing_id;index" json:"listing_id"`
	TenantID         int64      `gorm:"column:tenant_id;index" json:"tenant_id"`
	OwnerID          int64      `gorm:"column:owner_id;index" json:"owner_id"`
	Status           Status     `gorm:"column:status" json:"status"`
	ScheduledAt      time.Time  `gorm:"column:scheduled_at" json:"scheduled_at"`
	TenantDecision   Decision   `gorm:"column:tenant_decision" json:"tenant_decision"`
	OwnerDecision    Decision   `gorm:"column:owner_decision" json:"owner_decision"`
	TenantDecisionAt *time.Time `gorm:"column:tenant_decision_at" json:"tenant_decision_at,omitempty"`
	OwnerDecisionAt  *time.Time `gorm:"column:owner_decision_at" json:"owner_decision_at,omitempty"`
	TenantNotes      string     `gorm:"column:tenant_notes" json:"tenant_notes,omitempty"`
	OwnerNotes       string     `gorm:"column:owner_notes" json:"owner_notes,omitempty"`
	MatchedAt        *time.Time `gorm:"column:matched_at" json:"matched_at,omitempty"`
	CreatedAt        time.Time  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"column:updated_at" json:"updated_at"`
}

func (Visit) TableName() string { return "visits" }

// PartyOf returns which side of the visit userID is on, if any.
func (v *Visit) PartyOf(userID int64) (Party, bool) {
	switch userID {
	case v.TenantID:
		return PartyTenant, true
	case v.OwnerID:
		return PartyOwner, true
	}
	return "", false
}

// Counterpart returns the user on the other side of party.
func (v *Visit) Counterpart(party Party) int64 {
	if party == PartyTenant {
		return v.OwnerID
	}
	return v.TenantID
}

// MutualInterest reports whether both parties have declared interested.
func (v *Visit) MutualInterest() bool {
	return v.TenantDecision == DecisionInterested && v.OwnerDecision == DecisionInterested
}
