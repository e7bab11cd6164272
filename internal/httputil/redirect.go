// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"errors"
	"fmt"
	"strings"
)

// internalMarkers identify redirect targets on the operator's internal
// network segment: an environment-qualified host prefix and the private
// address block upstream has been observed redirecting to (R2.1). Following
// such redirects hangs on non-routable hosts.
var internalMarkers = []string{"prod:", "10.2.40"}

// ErrRedirectDenied reports a redirect to an internal-only target. A denied
// redirect is not retryable (R2.2).
var ErrRedirectDenied = errors.New("redirect target not externally routable")

// ErrNoLocation reports a 301/302 response without a Location header.
var ErrNoLocation = errors.New("redirect without location header")

// CheckRedirectTarget returns nil when target is safe to follow. The caller
// then re-issues the original method, headers, and body against the target,
// following at most one hop per attempt (R2.3).
func CheckRedirectTarget(target string) error {
	if target == "" {
		return ErrNoLocation
	}
	for _, marker := range internalMarkers {
		if strings.Contains(target, marker) {
			return fmt.Errorf("%w: %s", ErrRedirectDenied, target)
		}
	}
	return nil
}
