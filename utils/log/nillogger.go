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
	"io/ioutil"
	"strings"

	"github.com/sirupsen/logrus"
)

// NilFormatter discards every entry.
type NilFormatter struct{}

// Format returns no output.
func (f *NilFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	return nil, nil
}

// discardLogger receives the entries dropped by PkgDebugLogFilter.
var discardLogger = &logrus.Logger{
	Out:       ioutil.Discard,
	Formatter: &NilFormatter{},
	Hooks:     make(logrus.LevelHooks),
	Level:     PanicLevel,
}

// filtered reports whether an entry of level logged from funcDesc, a function
// name relative to the module such as "storage.(*Storage).Write", is more
// verbose than PkgDebugLogFilter allows for its package.
func filtered(funcDesc string, level logrus.Level) bool {
	pkg := strings.SplitN(funcDesc, ".", 2)[0]
	limit, ok := PkgDebugLogFilter[pkg]
	return ok && level > limit
}
