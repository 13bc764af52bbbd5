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

package symmetric

import (
	"bytes"
	"crypto/aes"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

const (
	password = "crowdfund-password"
	salt     = "crowdfund-key-salt"
)

func TestEncryptDecryptWithPassword(t *testing.T) {
	Convey("encrypt & decrypt 0 length bytes", t, func() {
		enc, err := EncryptWithPassword([]byte(nil), []byte(password), []byte(salt))
		So(err, ShouldBeNil)
		So(len(enc), ShouldEqual, 2*aes.BlockSize)

		dec, err := DecryptWithPassword(enc, []byte(password), []byte(salt))
		So(err, ShouldBeNil)
		So(dec, ShouldNotBeNil)
		So(len(dec), ShouldEqual, 0)
	})
	Convey("encrypt & decrypt 1747 length bytes", t, func() {
		in := bytes.Repeat([]byte{0xff}, 1747)
		enc, err := EncryptWithPassword(in, []byte(password), []byte(salt))
		So(err, ShouldBeNil)
		So(len(enc), ShouldEqual, (1747/aes.BlockSize+2)*aes.BlockSize)
		So(len(in), ShouldEqual, 1747)

		dec, err := DecryptWithPassword(enc, []byte(password), []byte(salt))
		So(err, ShouldBeNil)
		So(dec, ShouldResemble, in)
	})
	Convey("decrypt with the wrong password should not yield the plain text", t, func() {
		in := []byte("secret key material")
		enc, err := EncryptWithPassword(in, []byte(password), []byte(salt))
		So(err, ShouldBeNil)
		dec, err := DecryptWithPassword(enc, []byte("other"), []byte(salt))
		if err == nil {
			So(dec, ShouldNotResemble, in)
		}
	})
	Convey("decrypt error length bytes", t, func() {
		in := bytes.Repeat([]byte{0xff}, 1747)
		dec, err := DecryptWithPassword(in, []byte(password), []byte(salt))
		So(dec, ShouldBeNil)
		So(err, ShouldEqual, ErrInputSize)
	})
}
