package providers

import (
	"fmt"

	"propertyhub/listingsync/internal/constants"
)

// AuthError is fatal for a run: credentials are missing or the token
// exchange failed.
type AuthError struct {
	Code    string
	Status  int // upstream HTTP status, 0 when no response was received
	Details string
	Err     error
}

func (e *AuthError) Error() string {
	msg := constants.GetErrorMessage(e.Code)
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (HTTP %d)", msg, e.Status)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// FetchError is fatal for a run: the listings endpoint failed in a way
// that is not retried, or rate limiting outlasted the retry budget.
type FetchError struct {
	Code      string
	Status    int
	Page      int // 0 for single-listing fetches
	Attempts  int
	ListingID string
	Details   string
	Err       error
}

func (e *FetchError) Error() string {
	msg := constants.GetErrorMessage(e.Code)
	switch {
	case e.ListingID != "":
		msg = fmt.Sprintf("%s (listing %s", msg, e.ListingID)
	case e.Page > 0:
		msg = fmt.Sprintf("%s (page %d", msg, e.Page)
	default:
		msg += " ("
	}
	if e.Status != 0 {
		msg = fmt.Sprintf("%s, HTTP %d", msg, e.Status)
	}
	if e.Attempts > 0 {
		msg = fmt.Sprintf("%s, %d attempts", msg, e.Attempts)
	}
	msg += ")"
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
