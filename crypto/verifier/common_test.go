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

import (
	"testing"

	"github.com/pkg/errors"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/CovenantSQL/crowdfund/crypto"
	"github.com/CovenantSQL/crowdfund/crypto/asymmetric"
	"github.com/CovenantSQL/crowdfund/crypto/hash"
)

type mockHeader struct {
	payload []byte
}

func (h *mockHeader) MarshalHash() ([]byte, error) {
	return h.payload, nil
}

type mockObject struct {
	mockHeader
	HSV DefaultHashSignVerifierImpl
}

func (o *mockObject) Sign(signer *asymmetric.PrivateKey) error {
	return o.HSV.Sign(&o.mockHeader, signer)
}

func (o *mockObject) Verify() error {
	return o.HSV.Verify(&o.mockHeader)
}

func TestDefaultHashSignVerifierImpl(t *testing.T) {
	Convey("Given a dummy object and a pair of keys", t, func() {
		var (
			obj          = &mockObject{mockHeader: mockHeader{payload: []byte("finalize")}}
			priv, _, err = asymmetric.GenSecp256k1KeyPair()
		)
		So(err, ShouldBeNil)
		Convey("An unsigned object should not verify", func() {
			So(errors.Cause(obj.Verify()), ShouldEqual, ErrMissingSignature)
			_, err = obj.HSV.SignerAddress()
			So(errors.Cause(err), ShouldEqual, ErrMissingSignature)
		})
		Convey("When the object is signed by the key pair", func() {
			err = obj.Sign(priv)
			So(err, ShouldBeNil)
			Convey("The object should be verifiable", func() {
				So(obj.Verify(), ShouldBeNil)
				So(obj.HSV.Signee.IsEqual(priv.PubKey()), ShouldBeTrue)
			})
			Convey("The signer address should be the account of the key", func() {
				addr, err := obj.HSV.SignerAddress()
				So(err, ShouldBeNil)
				expected, err := crypto.PubKeyHash(priv.PubKey())
				So(err, ShouldBeNil)
				So(addr, ShouldResemble, expected)
			})
			Convey("The object should have data hash", func() {
				So(obj.HSV.Hash(), ShouldResemble, hash.THashH([]byte("finalize")))
			})
			Convey("When the header is modified after signing", func() {
				obj.payload = []byte("finalize!")
				So(errors.Cause(obj.Verify()), ShouldEqual, ErrHashValueNotMatch)
			})
			Convey("When the hash and header are both modified", func() {
				obj.payload = []byte("finalize!")
				obj.HSV.DataHash = hash.THashH(obj.payload)
				So(errors.Cause(obj.Verify()), ShouldEqual, ErrSignatureNotMatch)
			})
			Convey("When the signee is replaced", func() {
				_, pub, err := asymmetric.GenSecp256k1KeyPair()
				So(err, ShouldBeNil)
				obj.HSV.Signee = pub
				So(errors.Cause(obj.Verify()), ShouldEqual, ErrSignatureNotMatch)
			})
		})
	})
}
