package visit

import (
	"context"
	"log"
	"time"

	"renthome/internal/domain/listing"
)

// ListingStore is the narrow slice of the listing collaborator the engine
// needs: lookup at scheduling time, occupancy flip on match.
type ListingStore interface {
	GetByID(ctx context.Context, id int64) (*listing.Listing, error)
	MarkOccupied(ctx context.Context, id int64) error
}

// Notifier is implemented by the notification dispatcher.
type Notifier interface {
	NotifyTenantInterested(ctx context.Context, ownerID, visitID int64) error
	NotifyOwnerInterested(ctx context.Context, tenantID, visitID int64) error
	NotifyVisitMatch(ctx context.Context, userID, visitID int64) error
}

// Engine owns every visit state transition. The decision table:
//
//	tenant \ owner     undecided          interested        not_interested
//	undecided          -                  prompt tenant     -
//	interested         prompt owner       MATCH             prompt owner
//	not_interested     -                  prompt tenant     -
//
// A prompt fires only when the submission actually changed the stored value,
// so re-submitting the same decision never re-prompts the counterpart. The
// MATCH cell fires its side effects exactly once, gated by the repository's
// ClaimMatch compare-and-set, no matter how the two submissions interleave.
type Engine struct {
	repo     Repository
	listings ListingStore
	notifier Notifier
}

func NewEngine(repo Repository, listings ListingStore, notifier Notifier) *Engine {
	return &Engine{repo: repo, listings: listings, notifier: notifier}
}

// Schedule books a viewing of an active listing for a tenant.
func (e *Engine) Schedule(ctx context.Context, tenantID, listingID int64, at time.Time) (*Visit, error) {
	l, err := e.listings.GetByID(ctx, listingID)
	if err != nil {
		return nil, err
	}
	if !l.IsActive {
		return nil, ErrListingInactive
	}

	v := &Visit{
		ListingID:      listingID,
		TenantID:       tenantID,
		OwnerID:        l.OwnerID,
		Status:         StatusScheduled,
		ScheduledAt:    at,
		TenantDecision: DecisionUndecided,
		OwnerDecision:  DecisionUndecided,
	}
	if err := e.repo.Create(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (e *Engine) Get(ctx context.Context, visitID int64) (*Visit, error) {
	return e.repo.GetByID(ctx, visitID)
}

func (e *Engine) ListForUser(ctx context.Context, userID int64) ([]*Visit, error) {
	return e.repo.ListByUser(ctx, userID)
}

// Complete moves a scheduled visit to completed (owner or staff action).
func (e *Engine) Complete(ctx context.Context, visitID int64) (*Visit, error) {
	return e.transition(ctx, visitID, StatusCompleted)
}

// Cancel moves a scheduled visit to cancelled.
func (e *Engine) Cancel(ctx context.Context, visitID int64) (*Visit, error) {
	return e.transition(ctx, visitID, StatusCancelled)
}

func (e *Engine) transition(ctx context.Context, visitID int64, status Status) (*Visit, error) {
	changed, err := e.repo.UpdateStatus(ctx, visitID, status)
	if err != nil {
		return nil, err
	}
	if !changed {
		// Either missing or already out of the scheduled state
		if _, err := e.repo.GetByID(ctx, visitID); err != nil {
			return nil, err
		}
		return nil, ErrNotScheduled
	}
	return e.repo.GetByID(ctx, visitID)
}

// SubmitDecision records one party's interest outcome and drives the
// transition table. The write and the match check are both guarded updates
// against the persisted row, so two near-simultaneous "interested"
// submissions produce exactly one match: both may observe mutual interest,
// but only one ClaimMatch lands, and only that caller flips the listing and
// notifies.
//
// The occupancy flip is best effort: a match is a social fact between two
// people, and it is not rolled back because a secondary flag update failed.
func (e *Engine) SubmitDecision(ctx context.Context, visitID, actorID int64, actorRole string, override Party, decision Decision, notes string) (*Visit, error) {
	if !decision.Valid() {
		return nil, ErrInvalidDecision
	}

	v, err := e.repo.GetByID(ctx, visitID)
	if err != nil {
		return nil, err
	}
	if v.Status == StatusCancelled {
		return nil, ErrVisitCancelled
	}

	party, err := resolveParty(v, actorID, actorRole, override)
	if err != nil {
		return nil, err
	}

	changed, err := e.repo.SetDecision(ctx, visitID, party, decision, notes, time.Now())
	if err != nil {
		return nil, err
	}

	// Reload: the counterpart may have written between our load and our
	// decision write. Whichever submission lands second is guaranteed to
	// observe both columns.
	v, err = e.repo.GetByID(ctx, visitID)
	if err != nil {
		return nil, err
	}

	if v.MutualInterest() {
		claimed, err := e.repo.ClaimMatch(ctx, visitID, time.Now())
		if err != nil {
			return nil, err
		}
		if claimed {
			e.finalizeMatch(ctx, v)
			return e.repo.GetByID(ctx, visitID)
		}
		return v, nil
	}

	if changed && decision == DecisionInterested {
		e.promptCounterpart(ctx, v, party)
	}

	return v, nil
}

// finalizeMatch runs the side effects of the exactly-once match crossing.
// Failures here are logged, never propagated: the submission the user is
// waiting on already succeeded.
func (e *Engine) finalizeMatch(ctx context.Context, v *Visit) {
	if err := e.listings.MarkOccupied(ctx, v.ListingID); err != nil {
		log.Printf("listing_occupancy_flip_failed visit_id=%d listing_id=%d error=%q", v.ID, v.ListingID, err)
	}

	if err := e.notifier.NotifyVisitMatch(ctx, v.TenantID, v.ID); err != nil {
		log.Printf("match_notification_failed visit_id=%d user_id=%d error=%q", v.ID, v.TenantID, err)
	}
	if err := e.notifier.NotifyVisitMatch(ctx, v.OwnerID, v.ID); err != nil {
		log.Printf("match_notification_failed visit_id=%d user_id=%d error=%q", v.ID, v.OwnerID, err)
	}

	log.Printf("visit_matched visit_id=%d listing_id=%d tenant_id=%d owner_id=%d", v.ID, v.ListingID, v.TenantID, v.OwnerID)
}

func (e *Engine) promptCounterpart(ctx context.Context, v *Visit, party Party) {
	var err error
	if party == PartyTenant {
		err = e.notifier.NotifyTenantInterested(ctx, v.OwnerID, v.ID)
	} else {
		err = e.notifier.NotifyOwnerInterested(ctx, v.TenantID, v.ID)
	}
	if err != nil {
		log.Printf("prompt_notification_failed visit_id=%d party=%s error=%q", v.ID, party, err)
	}
}

// resolveParty maps the actor onto a side of the visit. Tenants and owners
// may only write their own column; staff/admin override on behalf of the
// party named in the request.
func resolveParty(v *Visit, actorID int64, actorRole string, override Party) (Party, error) {
	if actorRole == "staff" || actorRole == "admin" {
		if override != PartyTenant && override != PartyOwner {
			return "", ErrInvalidParty
		}
		return override, nil
	}

	party, ok := v.PartyOf(actorID)
	if !ok {
		return "", ErrNotVisitParty
	}
	return party, nil
}
