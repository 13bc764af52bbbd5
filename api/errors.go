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

package api

import (
	"net/http"

	"github.com/pkg/errors"

	"github.com/CovenantSQL/crowdfund/crypto/verifier"
	"github.com/CovenantSQL/crowdfund/ledger"
	pi "github.com/CovenantSQL/crowdfund/ledger/interfaces"
)

var (
	// ErrInvalidAddress indicates a malformed address argument.
	ErrInvalidAddress = errors.New("invalid address")
	// ErrInvalidHash indicates a malformed transaction hash argument.
	ErrInvalidHash = errors.New("invalid hash")
	// ErrInvalidQuery indicates malformed query parameters.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrInvalidRequest indicates a malformed request body.
	ErrInvalidRequest = errors.New("invalid request")
)

var argumentErrors = map[error]bool{
	ErrInvalidAddress: true,
	ErrInvalidHash:    true,
	ErrInvalidQuery:   true,
	ErrInvalidRequest: true,
}

// statusOf maps a ledger or api error to its http status.
func statusOf(err error) int {
	cause := errors.Cause(err)
	if argumentErrors[cause] {
		return http.StatusBadRequest
	}
	switch cause {
	case ledger.ErrRecordNotFound, ledger.ErrAccountNotFound:
		return http.StatusNotFound
	case ledger.ErrInvalidAccountNonce, ledger.ErrRecordExists, ledger.ErrInsufficientBalance:
		return http.StatusConflict
	case ledger.ErrInvalidSender, ledger.ErrUnknownTransactionType,
		verifier.ErrHashValueNotMatch, verifier.ErrSignatureNotMatch, verifier.ErrMissingSignature,
		pi.ErrInvalidTransactionType, pi.ErrNilTransaction:
		return http.StatusBadRequest
	}
	switch ledger.CategoryOf(err) {
	case ledger.CategoryValidation:
		return http.StatusBadRequest
	case ledger.CategoryTiming, ledger.CategoryState:
		return http.StatusConflict
	case ledger.CategoryAuthorization:
		return http.StatusForbidden
	case ledger.CategoryArithmetic:
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// codeOf returns the error code of err reported to clients.
func codeOf(err error) string {
	if argumentErrors[errors.Cause(err)] {
		return "InvalidArgument"
	}
	return ledger.CodeOf(err)
}
