package idgen

import (
	"github.com/google/uuid"
)

// ID prefixes for different registrations
const (
	PrefixObserver     = "obs_"
	PrefixSubscription = "sub_"
	PrefixRequest      = "req_"
)

// NewObserver generates a schedule observer ID with obs_ prefix
func NewObserver() string {
	return PrefixObserver + uuid.New().String()
}

// NewSubscription generates a clock subscription ID with sub_ prefix
func NewSubscription() string {
	return PrefixSubscription + uuid.New().String()
}

// NewRequest generates an HTTP request ID with req_ prefix
func NewRequest() string {
	return PrefixRequest + uuid.New().String()
}

// New generates a generic UUID without prefix (for internal use only)
func New() string {
	return uuid.New().String()
}
