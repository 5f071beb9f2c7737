package visit

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
)

// Repository persists visits. SetDecision and ClaimMatch are single guarded
// updates: the WHERE clause is the compare, RowsAffected the set. That keeps
// the decision write and the match check atomic against the row without any
// in-process lock, which matters because two decision submissions can arrive
// on different connections at the same instant.
type Repository interface {
	Create(ctx context.Context, v *Visit) error
	GetByID(ctx context.Context, id int64) (*Visit, error)
	ListByUser(ctx context.Context, userID int64) ([]*Visit, error)

	// SetDecision writes one party's decision. Reports changed=false when
	// the stored value already equals decision, the visit is cancelled, or
	// a match has been finalized — nothing is written in those cases.
	SetDecision(ctx context.Context, visitID int64, party Party, decision Decision, notes string, at time.Time) (changed bool, err error)

	// ClaimMatch finalizes mutual interest exactly once: only the caller
	// whose update actually lands (matched_at still NULL, both decisions
	// interested) gets claimed=true and runs the match side effects.
	ClaimMatch(ctx context.Context, visitID int64, at time.Time) (claimed bool, err error)

	// UpdateStatus moves scheduled -> completed/cancelled; reports
	// changed=false when the visit already left the scheduled state.
	UpdateStatus(ctx context.Context, visitID int64, status Status) (changed bool, err error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, v *Visit) error {
	return r.db.WithContext(ctx).Create(v).Error
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Visit, error) {
	var v Visit
	err := r.db.WithContext(ctx).First(&v, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrVisitNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *repository) ListByUser(ctx context.Context, userID int64) ([]*Visit, error) {
	var visits []*Visit
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? OR owner_id = ?", userID, userID).
		Order("scheduled_at DESC").
		Find(&visits).Error
	return visits, err
}

func (r *repository) SetDecision(ctx context.Context, visitID int64, party Party, decision Decision, notes string, at time.Time) (bool, error) {
	decisionCol, atCol, notesCol := "tenant_decision", "tenant_decision_at", "tenant_notes"
	if party == PartyOwner {
		decisionCol, atCol, notesCol = "owner_decision", "owner_decision_at", "owner_notes"
	}

	res := r.db.WithContext(ctx).
		Model(&Visit{}).
		Where("id = ? AND "+decisionCol+" <> ? AND matched_at IS NULL AND status <> ?",
			visitID, decision, StatusCancelled).
		Updates(map[string]interface{}{
			decisionCol: decision,
			atCol:       at,
			notesCol:    notes,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) ClaimMatch(ctx context.Context, visitID int64, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&Visit{}).
		Where("id = ? AND tenant_decision = ? AND owner_decision = ? AND matched_at IS NULL",
			visitID, DecisionInterested, DecisionInterested).
		Update("matched_at", at)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) UpdateStatus(ctx context.Context, visitID int64, status Status) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&Visit{}).
		Where("id = ? AND status = ?", visitID, StatusScheduled).
		Update("status", status)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
