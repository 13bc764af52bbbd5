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

package ledger

import (
	"errors"

	pkgerrors "github.com/pkg/errors"

	"github.com/CovenantSQL/crowdfund/crypto/verifier"
	pi "github.com/CovenantSQL/crowdfund/ledger/interfaces"
	"github.com/CovenantSQL/crowdfund/ledger/types"
	"github.com/CovenantSQL/crowdfund/storage"
)

var (
	// ErrAlreadyInitialized indicates the counter record already exists.
	ErrAlreadyInitialized = errors.New("Counter already initialized")
	// ErrCounterFull indicates the counter reached its capacity.
	ErrCounterFull = errors.New("Counter full")
	// ErrEmptyTitle indicates an empty campaign title.
	ErrEmptyTitle = errors.New("Title empty")
	// ErrEmptyDescription indicates an empty campaign description.
	ErrEmptyDescription = errors.New("Description empty")
	// ErrTitleTooLong indicates a campaign title over the length limit.
	ErrTitleTooLong = errors.New("Title too long")
	// ErrDescriptionTooLong indicates a campaign description over the length limit.
	ErrDescriptionTooLong = errors.New("Description too long")
	// ErrInvalidFundingGoal indicates a zero funding goal.
	ErrInvalidFundingGoal = errors.New("Funding goal is zero")
	// ErrInvalidContributionAmount indicates a zero contribution.
	ErrInvalidContributionAmount = errors.New("Contribution is zero")
	// ErrProjectExpired indicates a contribution at or after the deadline.
	ErrProjectExpired = errors.New("Project expired")
	// ErrProjectFinalized indicates a contribution to a finalized campaign.
	ErrProjectFinalized = errors.New("Project closed")
	// ErrAmountOverflow indicates the locked amount would overflow.
	ErrAmountOverflow = errors.New("Amount overflow")
	// ErrProjectAlreadyFinalized indicates a second finalization.
	ErrProjectAlreadyFinalized = errors.New("Project finalized")
	// ErrProjectNotExpired indicates a finalization before the deadline.
	ErrProjectNotExpired = errors.New("Project not expired")
	// ErrUnauthorizedCreator indicates a finalization sent by someone else than the creator.
	ErrUnauthorizedCreator = errors.New("Unauthorized")
	// ErrProjectNotFinalized indicates a refund claim on an unresolved campaign.
	ErrProjectNotFinalized = errors.New("Project not finalized")
	// ErrProjectSucceeded indicates a refund claim on a successful campaign.
	ErrProjectSucceeded = errors.New("Project has succeeded")
	// ErrAlreadyRefunded indicates a second refund of the same contribution.
	ErrAlreadyRefunded = errors.New("Already refunded")
	// ErrUnauthorizedContributor indicates a refund claim by someone else than the contributor.
	ErrUnauthorizedContributor = errors.New("Unauthorized contributor")
	// ErrInvalidContribution indicates a contribution which does not belong to the campaign.
	ErrInvalidContribution = errors.New("Invalid contribution")

	// ErrRecordExists indicates the derived address of a new record is taken.
	ErrRecordExists = errors.New("record already exists")
	// ErrRecordNotFound indicates a referenced record does not exist.
	ErrRecordNotFound = errors.New("record not found")
	// ErrAccountNotFound indicates an unknown balance account.
	ErrAccountNotFound = errors.New("account not found")
	// ErrInsufficientBalance indicates the source balance can not cover a transfer.
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrBalanceOverflow indicates the receiver balance would overflow.
	ErrBalanceOverflow = errors.New("balance overflow")
	// ErrUnauthorizedTransfer indicates a transfer without a matching authority.
	ErrUnauthorizedTransfer = errors.New("unauthorized transfer")
	// ErrInvalidAccountNonce indicates a transaction nonce other than the next one.
	ErrInvalidAccountNonce = errors.New("invalid account nonce")
	// ErrInvalidSender indicates the signee does not hash to the sender.
	ErrInvalidSender = errors.New("invalid sender")
	// ErrUnknownTransactionType indicates an unsupported transaction.
	ErrUnknownTransactionType = errors.New("unknown transaction type")
	// ErrCustodyMismatch indicates a custody balance which differs from its locked amount.
	ErrCustodyMismatch = errors.New("custody balance mismatch")
)

// Category groups ledger errors by their cause.
type Category int

const (
	// CategoryNone is the category of a nil error.
	CategoryNone Category = iota
	// CategoryValidation is a caller input fault.
	CategoryValidation
	// CategoryTiming is an operation sent at the wrong time relative to the deadline.
	CategoryTiming
	// CategoryState is an operation not allowed in the current record state.
	CategoryState
	// CategoryAuthorization is an operation sent by the wrong identity or on mismatched records.
	CategoryAuthorization
	// CategoryArithmetic is an amount overflow.
	CategoryArithmetic
	// CategoryHost is a failure of storage, balances, signatures or nonces.
	CategoryHost
)

func (c Category) String() string {
	switch c {
	case CategoryNone:
		return "None"
	case CategoryValidation:
		return "Validation"
	case CategoryTiming:
		return "Timing"
	case CategoryState:
		return "State"
	case CategoryAuthorization:
		return "Authorization"
	case CategoryArithmetic:
		return "Arithmetic"
	default:
		return "Host"
	}
}

type errorInfo struct {
	code     string
	category Category
}

var errorInfos = map[error]errorInfo{
	ErrEmptyTitle:                {"EmptyTitle", CategoryValidation},
	ErrEmptyDescription:          {"EmptyDescription", CategoryValidation},
	ErrTitleTooLong:              {"TitleTooLong", CategoryValidation},
	ErrDescriptionTooLong:        {"DescriptionTooLong", CategoryValidation},
	ErrInvalidFundingGoal:        {"InvalidFundingGoal", CategoryValidation},
	ErrInvalidContributionAmount: {"InvalidContributionAmount", CategoryValidation},
	ErrProjectExpired:            {"ProjectExpired", CategoryTiming},
	ErrProjectNotExpired:         {"ProjectNotExpired", CategoryTiming},
	ErrAlreadyInitialized:        {"AlreadyInitialized", CategoryState},
	ErrCounterFull:               {"CounterFull", CategoryState},
	ErrProjectFinalized:          {"ProjectFinalized", CategoryState},
	ErrProjectAlreadyFinalized:   {"ProjectAlreadyFinalized", CategoryState},
	ErrProjectNotFinalized:       {"ProjectNotFinalized", CategoryState},
	ErrProjectSucceeded:          {"ProjectSucceeded", CategoryState},
	ErrAlreadyRefunded:           {"AlreadyRefunded", CategoryState},
	ErrUnauthorizedCreator:       {"UnauthorizedCreator", CategoryAuthorization},
	ErrUnauthorizedContributor:   {"UnauthorizedContributor", CategoryAuthorization},
	ErrInvalidContribution:       {"InvalidContribution", CategoryAuthorization},
	ErrAmountOverflow:            {"AmountOverflow", CategoryArithmetic},
	ErrRecordExists:              {"RecordExists", CategoryHost},
	ErrRecordNotFound:            {"RecordNotFound", CategoryHost},
	ErrAccountNotFound:           {"AccountNotFound", CategoryHost},
	ErrInsufficientBalance:       {"InsufficientBalance", CategoryHost},
	ErrBalanceOverflow:           {"BalanceOverflow", CategoryHost},
	ErrUnauthorizedTransfer:      {"UnauthorizedTransfer", CategoryHost},
	ErrInvalidAccountNonce:       {"InvalidAccountNonce", CategoryHost},
	ErrInvalidSender:             {"InvalidSender", CategoryHost},
	ErrUnknownTransactionType:    {"UnknownTransactionType", CategoryHost},
	ErrCustodyMismatch:           {"CustodyMismatch", CategoryHost},

	verifier.ErrHashValueNotMatch:   {"HashValueNotMatch", CategoryHost},
	verifier.ErrSignatureNotMatch:   {"SignatureNotMatch", CategoryHost},
	verifier.ErrMissingSignature:    {"MissingSignature", CategoryHost},
	pi.ErrInvalidTransactionType:    {"InvalidTransactionType", CategoryHost},
	types.ErrRecordKindMismatch:     {"RecordCorrupted", CategoryHost},
	types.ErrRecordTruncated:        {"RecordCorrupted", CategoryHost},
	types.ErrRecordTrailingBytes:    {"RecordCorrupted", CategoryHost},
	storage.ErrNotFound:             {"NotFound", CategoryHost},
	storage.ErrStorageClosed:        {"StorageClosed", CategoryHost},
}

// CategoryOf returns the category of err, unknown errors belong to the host.
func CategoryOf(err error) Category {
	if err == nil {
		return CategoryNone
	}
	if info, ok := errorInfos[pkgerrors.Cause(err)]; ok {
		return info.category
	}
	return CategoryHost
}

// CodeOf returns a stable identifier of err for clients.
func CodeOf(err error) string {
	if err == nil {
		return ""
	}
	if info, ok := errorInfos[pkgerrors.Cause(err)]; ok {
		return info.code
	}
	return "HostError"
}
