// Copyright 2026 VIP Research Exchange
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package chat

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrInvalidRequest signals a malformed inbound request, such as a
	// missing or empty messages array.
	ErrInvalidRequest = errors.New("invalid chat request")
	// ErrUnauthorized signals a missing or non-organization identity.
	ErrUnauthorized = errors.New("identity not authorized")
)

// RateLimitError is returned when an identity has exhausted its request
// quota for the current window.
type RateLimitError struct {
	RetryAfterMinutes int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit reached, retry in %d minutes", e.RetryAfterMinutes)
}

// StatusOf maps an error from Handle onto an HTTP-style status code.
// A nil error maps to 200.
func StatusOf(err error) int {
	if err == nil {
		return http.StatusOK
	}
	var rateErr *RateLimitError
	switch {
	case errors.Is(err, ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusForbidden
	case errors.As(err, &rateErr):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
