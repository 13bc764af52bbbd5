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

// Package log wraps logrus with a caller hook and package level filters used
// across the ledger daemon and tools.
package log

import (
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	// PanicLevel logs and then calls panic.
	PanicLevel logrus.Level = iota
	// FatalLevel logs and then calls os.Exit(1).
	FatalLevel
	// ErrorLevel is for errors that should definitely be noted.
	ErrorLevel
	// WarnLevel is for non-critical entries that deserve eyes.
	WarnLevel
	// InfoLevel is for general operational entries.
	InfoLevel
	// DebugLevel is very verbose logging, e.g. every rejected transaction.
	DebugLevel
)

const modulePrefix = "github.com/CovenantSQL/crowdfund/"

var (
	// PkgDebugLogFilter drops entries of a package which are more verbose
	// than the configured level.
	PkgDebugLogFilter = map[string]logrus.Level{
		"metric":  InfoLevel,
		"storage": InfoLevel,
	}
	// SimpleLog disables caller and stack decoration, "Y" for true.
	// Set with -ldflags in go build.
	SimpleLog = "N"
)

// Logger wraps logrus logger type.
type Logger logrus.Logger

// Fields defines the field map to pass to WithFields.
type Fields logrus.Fields

// CallerHook adds the calling function to error entries, plus the stack for
// the configured levels.
type CallerHook struct {
	StackLevels []logrus.Level
}

// NewCallerHook creates new CallerHook.
func NewCallerHook(stackLevels []logrus.Level) *CallerHook {
	return &CallerHook{
		StackLevels: stackLevels,
	}
}

// StandardCallerHook returns the hook installed on the standard logger.
func StandardCallerHook() *CallerHook {
	if SimpleLog == "Y" {
		return NewCallerHook([]logrus.Level{})
	}
	return NewCallerHook(
		[]logrus.Level{logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel},
	)
}

// Fire defines hook event handler.
func (hook *CallerHook) Fire(entry *logrus.Entry) error {
	funcDesc, caller := hook.caller(entry)
	if filtered(funcDesc, entry.Level) {
		entry.Logger = discardLogger
		return nil
	}
	entry.Data["caller"] = caller
	return nil
}

// Levels define hook applicable level.
func (hook *CallerHook) Levels() []logrus.Level {
	if SimpleLog == "Y" {
		return []logrus.Level{}
	}
	return []logrus.Level{
		logrus.PanicLevel,
		logrus.FatalLevel,
		logrus.ErrorLevel,
	}
}

func (hook *CallerHook) caller(entry *logrus.Entry) (relFuncName, caller string) {
	skipFrames := 6
	if len(entry.Data) == 0 {
		skipFrames = 8
	}

	pcs := make([]uintptr, 12)
	stacks := make([]runtime.Frame, 0, 12)
	if runtime.Callers(skipFrames, pcs) > 0 {
		var found bool
		frames := runtime.CallersFrames(pcs)
		for {
			f, more := frames.Next()
			if !found && strings.HasSuffix(f.File, "logwrapper.go") && more {
				f, _ = frames.Next()
				relFuncName = strings.TrimPrefix(f.Function, modulePrefix)
				caller = fmt.Sprintf("%s:%d %s", filepath.Base(f.File), f.Line, relFuncName)
				found = true
			}
			if found {
				stacks = append(stacks, f)
			}
			if !more {
				break
			}
		}
	}

	for _, level := range hook.StackLevels {
		if entry.Level != level || len(stacks) == 0 {
			continue
		}
		lines := make([]string, 0, len(stacks))
		for i, s := range stacks {
			if s.Line > 0 {
				lines = append(lines, fmt.Sprintf("#%d %s@%s:%d",
					i, strings.TrimPrefix(s.Function, modulePrefix), filepath.Base(s.File), s.Line))
			}
		}
		entry.Data["stack"] = lines
		break
	}

	return
}

func init() {
	AddHook(StandardCallerHook())
}

// StandardLogger returns the standard logger.
func StandardLogger() *Logger {
	return (*Logger)(logrus.StandardLogger())
}

// SetOutput sets the standard logger output.
func SetOutput(out io.Writer) {
	logrus.SetOutput(out)
}

// SetFormatter sets the standard logger formatter.
func SetFormatter(formatter logrus.Formatter) {
	logrus.SetFormatter(formatter)
}

// SetLevel sets the standard logger level.
func SetLevel(level logrus.Level) {
	logrus.SetLevel(level)
}

// GetLevel returns the standard logger level.
func GetLevel() logrus.Level {
	return logrus.GetLevel()
}

// ParseLevel parse the level string and returns the logger level.
func ParseLevel(lvl string) (logrus.Level, error) {
	return logrus.ParseLevel(lvl)
}

// SetStringLevel enforce current log level, falling back to defaultLevel on
// unknown input.
func SetStringLevel(lvl string, defaultLevel logrus.Level) {
	if l, err := ParseLevel(lvl); err != nil {
		SetLevel(defaultLevel)
	} else {
		SetLevel(l)
	}
}

// WriterLevel returns a writer which logs every line written to it at level.
// The caller must close the writer.
func WriterLevel(level logrus.Level) *io.PipeWriter {
	return logrus.StandardLogger().WriterLevel(level)
}

// AddHook adds a hook to the standard logger hooks.
func AddHook(hook logrus.Hook) {
	logrus.AddHook(hook)
}

// WithError creates an entry from the standard logger with err as the error field.
func WithError(err error) *Entry {
	return WithField(logrus.ErrorKey, err)
}

// WithField creates an entry from the standard logger and adds a field to it.
func WithField(key string, value interface{}) *Entry {
	return (*Entry)(logrus.WithField(key, value))
}

// WithFields creates an entry from the standard logger and adds multiple
// fields to it.
func WithFields(fields Fields) *Entry {
	return (*Entry)(logrus.WithFields(logrus.Fields(fields)))
}

// WithTime add time fields to log entry.
func WithTime(t time.Time) *Entry {
	return (*Entry)(logrus.WithTime(t))
}

// Debug logs a message at level Debug on the standard logger.
func Debug(args ...interface{}) {
	logrus.Debug(args...)
}

// Info logs a message at level Info on the standard logger.
func Info(args ...interface{}) {
	logrus.Info(args...)
}

// Warning logs a message at level Warn on the standard logger.
func Warning(args ...interface{}) {
	logrus.Warning(args...)
}

// Error logs a message at level Error on the standard logger.
func Error(args ...interface{}) {
	logrus.Error(args...)
}

// Fatal logs a message at level Fatal on the standard logger.
func Fatal(args ...interface{}) {
	logrus.Fatal(args...)
}

// Debugf logs a message at level Debug on the standard logger.
func Debugf(format string, args ...interface{}) {
	logrus.Debugf(format, args...)
}

// Infof logs a message at level Info on the standard logger.
func Infof(format string, args ...interface{}) {
	logrus.Infof(format, args...)
}

// Warningf logs a message at level Warn on the standard logger.
func Warningf(format string, args ...interface{}) {
	logrus.Warningf(format, args...)
}

// Errorf logs a message at level Error on the standard logger.
func Errorf(format string, args ...interface{}) {
	logrus.Errorf(format, args...)
}

// Fatalf logs a message at level Fatal on the standard logger.
func Fatalf(format string, args ...interface{}) {
	logrus.Fatalf(format, args...)
}
