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

package utils

import (
	"os/user"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

type sampleRecord struct {
	Name   string
	Amount uint64
	Tags   []string
}

func TestMsgPack(t *testing.T) {
	Convey("A struct should survive a msgpack round trip", t, func() {
		in := &sampleRecord{Name: "campaign", Amount: 1000, Tags: []string{"a", "b"}}
		buf, err := EncodeMsgPack(in)
		So(err, ShouldBeNil)
		out := &sampleRecord{}
		err = DecodeMsgPack(buf.Bytes(), out)
		So(err, ShouldBeNil)
		So(out, ShouldResemble, in)
	})
	Convey("Garbage input should not decode", t, func() {
		out := &sampleRecord{}
		err := DecodeMsgPack([]byte{0xc1}, out)
		So(err, ShouldNotBeNil)
	})
}

func TestPath(t *testing.T) {
	Convey("Paths should be expanded and resolved", t, func() {
		usr, err := user.Current()
		So(err, ShouldBeNil)
		So(HomeDirExpand("~"), ShouldEqual, usr.HomeDir)
		So(HomeDirExpand("~/data"), ShouldEqual, filepath.Join(usr.HomeDir, "data"))
		So(HomeDirExpand("/abs"), ShouldEqual, "/abs")
		So(ResolvePath("/root/work", "data"), ShouldEqual, "/root/work/data")
		So(ResolvePath("/root/work", "/var/data"), ShouldEqual, "/var/data")
		So(ResolvePath("", "data"), ShouldEqual, "data")
		So(ResolvePath("/root/work", ""), ShouldEqual, "")
		So(Exist("path.go"), ShouldBeTrue)
		So(Exist("/path/not/exist"), ShouldBeFalse)
	})
}
