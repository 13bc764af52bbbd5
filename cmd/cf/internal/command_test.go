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

package internal

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/CovenantSQL/crowdfund/crypto/hash"
	"github.com/CovenantSQL/crowdfund/proto"
)

func TestCommand(t *testing.T) {
	Convey("Commands should be named by their usage line", t, func() {
		So(CmdCreate.Name(), ShouldEqual, "create")
		So(CmdInitCounter.Name(), ShouldEqual, "init-counter")
		So(CmdInspect.Name(), ShouldEqual, "inspect")
		So((&Command{UsageLine: "cf"}).Name(), ShouldEqual, "")
		So(CmdRefund.Runnable(), ShouldBeTrue)
		So((&Command{}).Runnable(), ShouldBeFalse)
		So(CmdRefund.Flag.Lookup("contribution"), ShouldNotBeNil)
		So(CmdCreate.Flag.Lookup("goal"), ShouldNotBeNil)
	})
	Convey("Exit status should keep the highest value", t, func() {
		SetExitStatus(1)
		SetExitStatus(0)
		So(ExitStatus(), ShouldEqual, 1)
	})
	Convey("Addresses should be parsed from hex", t, func() {
		expected := proto.AccountAddress(hash.THashH([]byte("campaign")))
		addr, ok := parseAddress(expected.String(), "campaign")
		So(ok, ShouldBeTrue)
		So(addr, ShouldResemble, expected)
		_, ok = parseAddress("zz", "campaign")
		So(ok, ShouldBeFalse)
	})
	Convey("The version line should name the tool", t, func() {
		So(PrintVersion(false), ShouldStartWith, "cf ")
	})
}
