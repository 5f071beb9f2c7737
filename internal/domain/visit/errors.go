package visit

import "errors"

var (
	ErrVisitNotFound   = errors.New("visit not found")
	ErrNotVisitParty   = errors.New("you are not a party of this visit")
	ErrVisitCancelled  = errors.New("visit is cancelled")
	ErrInvalidDecision = errors.New("decision must be interested or not_interested")
	ErrInvalidParty    = errors.New("party must be tenant or owner")
	ErrListingInactive = errors.New("listing is not active")
	ErrNotScheduled    = errors.New("visit is not in scheduled state")
)
