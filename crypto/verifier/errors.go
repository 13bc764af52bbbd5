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

package verifier

import "github.com/pkg/errors"

var (
	// ErrHashValueNotMatch indicates that the data hash does not match the hashed header.
	ErrHashValueNotMatch = errors.New("hash value not match")
	// ErrSignatureNotMatch indicates that the signature does not match the data hash and signee.
	ErrSignatureNotMatch = errors.New("signature not match")
	// ErrMissingSignature indicates that the object was never signed.
	ErrMissingSignature = errors.New("missing signee or signature")
)
