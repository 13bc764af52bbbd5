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
	"time"

	"github.com/sirupsen/logrus"
)

// Entry is a logrus entry carrying ledger fields such as the transaction
// hash, sender or campaign address. Its methods must stay in a file ending in
// logwrapper.go for the caller hook to find the real caller.
type Entry logrus.Entry

func (entry *Entry) raw() *logrus.Entry {
	return (*logrus.Entry)(entry)
}

// WithError adds err as the error field.
func (entry *Entry) WithError(err error) *Entry {
	return (*Entry)(entry.raw().WithError(err))
}

// WithField adds a single field.
func (entry *Entry) WithField(key string, value interface{}) *Entry {
	return (*Entry)(entry.raw().WithField(key, value))
}

// WithFields adds all of fields.
func (entry *Entry) WithFields(fields Fields) *Entry {
	return (*Entry)(entry.raw().WithFields(logrus.Fields(fields)))
}

// WithTime overrides the entry time.
func (entry *Entry) WithTime(t time.Time) *Entry {
	return (*Entry)(entry.raw().WithTime(t))
}

// Debug logs at DebugLevel, used for rejected transactions.
func (entry *Entry) Debug(args ...interface{}) {
	entry.raw().Log(DebugLevel, args...)
}

// Info logs at InfoLevel, used for applied transactions.
func (entry *Entry) Info(args ...interface{}) {
	entry.raw().Log(InfoLevel, args...)
}

// Warning logs at WarnLevel.
func (entry *Entry) Warning(args ...interface{}) {
	entry.raw().Log(WarnLevel, args...)
}

// Error logs at ErrorLevel.
func (entry *Entry) Error(args ...interface{}) {
	entry.raw().Log(ErrorLevel, args...)
}

// Fatal logs at FatalLevel and exits.
func (entry *Entry) Fatal(args ...interface{}) {
	entry.raw().Fatal(args...)
}

func (entry *Entry) Debugf(format string, args ...interface{}) {
	entry.raw().Logf(DebugLevel, format, args...)
}

func (entry *Entry) Infof(format string, args ...interface{}) {
	entry.raw().Logf(InfoLevel, format, args...)
}

func (entry *Entry) Warningf(format string, args ...interface{}) {
	entry.raw().Logf(WarnLevel, format, args...)
}

func (entry *Entry) Errorf(format string, args ...interface{}) {
	entry.raw().Logf(ErrorLevel, format, args...)
}

func (entry *Entry) Fatalf(format string, args ...interface{}) {
	entry.raw().Fatalf(format, args...)
}
