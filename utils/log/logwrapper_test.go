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

package log

import (
	"bytes"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	. "github.com/smartystreets/goconvey/convey"
)

func TestStandardLogger(t *testing.T) {
	Convey("Given a buffered standard logger", t, func() {
		var buf bytes.Buffer
		SetOutput(&buf)
		SetFormatter(&logrus.JSONFormatter{})
		defer SetOutput(&bytes.Buffer{})

		Convey("String levels should fall back on bad input", func() {
			SetStringLevel("debug", InfoLevel)
			So(GetLevel(), ShouldEqual, DebugLevel)
			SetStringLevel("not-a-level", WarnLevel)
			So(GetLevel(), ShouldEqual, WarnLevel)
			SetLevel(DebugLevel)
		})
		Convey("Fields and errors should be emitted", func() {
			SetLevel(DebugLevel)
			WithFields(Fields{"campaign": "c1"}).WithError(errors.New("boom")).Debug("rejected")
			So(buf.String(), ShouldContainSubstring, `"campaign":"c1"`)
			So(buf.String(), ShouldContainSubstring, `"error":"boom"`)
			buf.Reset()
			WithField("k", 1).Info("applied")
			Infof("applied %d", 2)
			So(buf.String(), ShouldContainSubstring, "applied 2")
		})
		Convey("Error entries should carry the caller", func() {
			WithField("k", "v").Error("failed")
			So(buf.String(), ShouldContainSubstring, `"caller"`)
		})
		Convey("Package filters should drop verbose entries", func() {
			So(filtered("storage.(*Storage).Write", DebugLevel), ShouldBeTrue)
			So(filtered("storage.(*Storage).Write", InfoLevel), ShouldBeFalse)
			So(filtered("ledger.(*Ledger).Apply", DebugLevel), ShouldBeFalse)
			So(filtered("", ErrorLevel), ShouldBeFalse)
		})
		Convey("Entry levels should match the logger level", func() {
			SetLevel(InfoLevel)
			WithField("tx", "t1").Debug("rejected")
			So(buf.String(), ShouldNotContainSubstring, "rejected")
			WithField("tx", "t1").Warningf("nonce %d", 3)
			So(buf.String(), ShouldContainSubstring, "nonce 3")
			SetLevel(DebugLevel)
		})
		Convey("NilFormatter should drop entries", func() {
			n := NilFormatter{}
			out, err := n.Format(&logrus.Entry{})
			So(out, ShouldBeNil)
			So(err, ShouldBeNil)
		})
	})
}
