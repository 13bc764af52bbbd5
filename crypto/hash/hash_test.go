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

package hash

import (
	"encoding/json"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	yaml "gopkg.in/yaml.v2"
)

func TestHash(t *testing.T) {
	Convey("Given a hash computed from some bytes", t, func() {
		var (
			h   = THashH([]byte("crowdfund"))
			str = h.String()
		)
		So(len(str), ShouldEqual, MaxHashStringSize)
		So(h.IsZero(), ShouldBeFalse)
		So(h.Short(8), ShouldEqual, str[:8])
		So(h.Short(100), ShouldEqual, str)
		So(THashB([]byte("crowdfund")), ShouldResemble, h[:])

		Convey("The string form should decode back to the same hash", func() {
			d, err := NewHashFromStr(str)
			So(err, ShouldBeNil)
			So(d.IsEqual(&h), ShouldBeTrue)
		})
		Convey("Malformed strings should be rejected", func() {
			_, err := NewHashFromStr(str[:10])
			So(err, ShouldNotBeNil)
			_, err = NewHashFromStr(strings.Repeat("0", MaxHashStringSize+2))
			So(err, ShouldEqual, ErrHashStrSize)
			_, err = NewHashFromStr(strings.Repeat("z", MaxHashStringSize))
			So(err, ShouldNotBeNil)
		})
		Convey("Byte level helpers should keep the value", func() {
			n, err := NewHash(h.CloneBytes())
			So(err, ShouldBeNil)
			So(*n, ShouldResemble, h)
			_, err = NewHash([]byte{0x1})
			So(err, ShouldNotBeNil)
			enc, err := h.MarshalHash()
			So(err, ShouldBeNil)
			So(enc, ShouldResemble, h[:])
			So(h.Msgsize(), ShouldBeGreaterThan, HashSize)
		})
		Convey("Nil hashes should compare properly", func() {
			So((*Hash)(nil).IsEqual(nil), ShouldBeTrue)
			So(h.IsEqual(nil), ShouldBeFalse)
		})
		Convey("JSON and YAML round trips should keep the value", func() {
			var (
				jh, yh Hash
				buf    []byte
				err    error
			)
			buf, err = json.Marshal(h)
			So(err, ShouldBeNil)
			err = json.Unmarshal(buf, &jh)
			So(err, ShouldBeNil)
			So(jh, ShouldResemble, h)
			buf, err = yaml.Marshal(h)
			So(err, ShouldBeNil)
			err = yaml.Unmarshal(buf, &yh)
			So(err, ShouldBeNil)
			So(yh, ShouldResemble, h)
		})
	})
}
