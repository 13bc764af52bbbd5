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

package types

import "errors"

var (
	// ErrRecordKindMismatch indicates the discriminator byte of an encoded
	// record does not match the decoding target.
	ErrRecordKindMismatch = errors.New("record kind mismatch")
	// ErrRecordTruncated indicates an encoded record is shorter than its layout.
	ErrRecordTruncated = errors.New("record truncated")
	// ErrRecordTrailingBytes indicates an encoded record is longer than its layout.
	ErrRecordTrailingBytes = errors.New("record has trailing bytes")
	// ErrUnknownRecordKind indicates an unknown discriminator byte.
	ErrUnknownRecordKind = errors.New("unknown record kind")
)
