package azure

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"

	"github.com/imamik/vmprovision/internal/cloud"
)

// notFoundCodes are ARM error codes that mean the resource does not exist.
var notFoundCodes = map[string]bool{
	"ResourceGroupNotFound": true,
	"ResourceNotFound":      true,
	"NotFound":              true,
}

// isNotFound reports whether err is an ARM "does not exist" response.
func isNotFound(err error) bool {
	var respErr *azcore.ResponseError
	if !errors.As(err, &respErr) {
		return false
	}
	return respErr.StatusCode == http.StatusNotFound || notFoundCodes[respErr.ErrorCode]
}

// errorCode returns the ARM error code carried by err, if any.
func errorCode(err error) string {
	var respErr *azcore.ResponseError
	if errors.As(err, &respErr) {
		return respErr.ErrorCode
	}
	return ""
}

// wrap annotates an SDK error with the operation and maps "not found"
// responses onto cloud.ErrNotFound.
func wrap(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	msg := fmt.Sprintf(format, args...)
	if isNotFound(err) {
		return fmt.Errorf("%s: %w: %w", msg, cloud.ErrNotFound, err)
	}
	if code := errorCode(err); code != "" {
		return fmt.Errorf("%s (%s): %w", msg, code, err)
	}
	return fmt.Errorf("%s: %w", msg, err)
}
