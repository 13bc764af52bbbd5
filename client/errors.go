/*
 * Copyright 2018 The CovenantSQL Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package client

import (
	"fmt"

	"github.com/pkg/errors"
)

// Various errors the client might returns.
var (
	// ErrNilKey indicates a client built without a signing key.
	ErrNilKey = errors.New("nil private key")
	// ErrInvalidEndpoint indicates an endpoint which is not an http url.
	ErrInvalidEndpoint = errors.New("invalid endpoint")
)

// APIError is a failed api response.
type APIError struct {
	StatusCode int
	Code       string
	Category   string
	Message    string
	RequestID  string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (%s, http %d, request %s)", e.Message, e.Code, e.StatusCode, e.RequestID)
}

// CodeOf returns the ledger error code carried by err, or an empty string if
// err is not an api error.
func CodeOf(err error) string {
	if e, ok := errors.Cause(err).(*APIError); ok {
		return e.Code
	}
	return ""
}
