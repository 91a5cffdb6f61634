package identity

import "errors"

var (
	// ErrNotSignedIn indicates no live provider session exists
	ErrNotSignedIn = errors.New("identity.not_signed_in")

	// ErrExchangeFailed indicates the provider rejected the code or refresh
	ErrExchangeFailed = errors.New("identity.exchange_failed")

	// ErrProfileFetch indicates the provider's profile endpoint failed
	ErrProfileFetch = errors.New("identity.profile_fetch_failed")
)
