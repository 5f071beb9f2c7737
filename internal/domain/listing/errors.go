package listing

import "errors"

var (
	ErrListingNotFound = errors.New("listing not found")
	ErrNotListingOwner = errors.New("you do not own this listing")
)
