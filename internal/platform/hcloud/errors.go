package hcloud

import (
	"errors"
	"fmt"

	"github.com/hetznercloud/hcloud-go/v2/hcloud"

	"github.com/imamik/vmprovision/internal/cloud"
)

// errorClass groups API error codes that call for the same reaction.
type errorClass map[hcloud.ErrorCode]struct{}

func newErrorClass(codes ...hcloud.ErrorCode) errorClass {
	c := make(errorClass, len(codes))
	for _, code := range codes {
		c[code] = struct{}{}
	}
	return c
}

func (c errorClass) matches(err error) bool {
	var apiErr hcloud.Error
	if err == nil || !errors.As(err, &apiErr) {
		return false
	}
	_, ok := c[apiErr.Code]
	return ok
}

var (
	// Locked resources, or resources still referenced by something being
	// deleted. Deletes retry on these.
	lockedErrors = newErrorClass(
		hcloud.ErrorCodeLocked,
		hcloud.ErrorCodeConflict,
		hcloud.ErrorCodeResourceLocked,
		hcloud.ErrorCodeResourceUnavailable,
		hcloud.ErrorCodeResourceInUse,
	)

	// Requests that will fail the same way on every attempt.
	invalidParameterErrors = newErrorClass(
		hcloud.ErrorCodeNotFound,
		hcloud.ErrorCodeInvalidInput,
		hcloud.ErrorCodeInvalidServerType,
		hcloud.ErrorCodeUniquenessError,
	)

	notFoundErrors    = newErrorClass(hcloud.ErrorCodeNotFound)
	rateLimitedErrors = newErrorClass(hcloud.ErrorCodeRateLimitExceeded)
)

func isResourceLocked(err error) bool   { return lockedErrors.matches(err) }
func isInvalidParameter(err error) bool { return invalidParameterErrors.matches(err) }

// IsNotFound reports whether err is an hcloud not_found API error.
func IsNotFound(err error) bool {
	return notFoundErrors.matches(err)
}

// IsRateLimited reports whether err is an hcloud rate_limit_exceeded API error.
func IsRateLimited(err error) bool {
	return rateLimitedErrors.matches(err)
}

// notFound builds the provider-neutral not found error for a resource.
func notFound(kind, name string) error {
	return fmt.Errorf("%s %s: %w", kind, name, cloud.ErrNotFound)
}
