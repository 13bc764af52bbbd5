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

package types

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/CovenantSQL/crowdfund/proto"
)

// RecordKind is the one byte discriminator written in front of every record.
type RecordKind byte

const (
	// RecordKindCounter marks a Counter record.
	RecordKindCounter RecordKind = iota + 1
	// RecordKindCampaign marks a Campaign record.
	RecordKindCampaign
	// RecordKindCustody marks a Custody record.
	RecordKindCustody
	// RecordKindContribution marks a Contribution record.
	RecordKindContribution
	// RecordKindAccount marks an external balance Account.
	RecordKindAccount
)

func (k RecordKind) String() string {
	switch k {
	case RecordKindCounter:
		return "Counter"
	case RecordKindCampaign:
		return "Campaign"
	case RecordKindCustody:
		return "Custody"
	case RecordKindContribution:
		return "Contribution"
	case RecordKindAccount:
		return "Account"
	default:
		return "Unknown"
	}
}

// KindOf returns the discriminator of an encoded record.
func KindOf(enc []byte) (RecordKind, error) {
	if len(enc) == 0 {
		return 0, ErrRecordTruncated
	}
	k := RecordKind(enc[0])
	if k < RecordKindCounter || k > RecordKindAccount {
		return k, ErrUnknownRecordKind
	}
	return k, nil
}

// recordWriter appends little endian fields to a preallocated buffer.
type recordWriter struct {
	buf []byte
}

func newRecordWriter(kind RecordKind, size int) *recordWriter {
	w := &recordWriter{buf: make([]byte, 0, size+1)}
	w.buf = append(w.buf, byte(kind))
	return w
}

func (w *recordWriter) putUint64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

func (w *recordWriter) putInt64(v int64) {
	w.putUint64(uint64(v))
}

func (w *recordWriter) putUint32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf = append(w.buf, b[:]...)
}

func (w *recordWriter) putBool(v bool) {
	if v {
		w.buf = append(w.buf, 1)
	} else {
		w.buf = append(w.buf, 0)
	}
}

func (w *recordWriter) putAddress(a proto.AccountAddress) {
	w.buf = append(w.buf, a[:]...)
}

func (w *recordWriter) putString(s string) {
	w.putUint32(uint32(len(s)))
	w.buf = append(w.buf, s...)
}

// recordReader consumes fields written by recordWriter, the first error
// sticks and every following read returns a zero value.
type recordReader struct {
	buf []byte
	off int
	err error
}

func newRecordReader(kind RecordKind, enc []byte) *recordReader {
	r := &recordReader{buf: enc}
	if len(enc) == 0 {
		r.err = ErrRecordTruncated
		return r
	}
	if RecordKind(enc[0]) != kind {
		r.err = errors.Wrapf(ErrRecordKindMismatch, "want %s, got %s", kind, RecordKind(enc[0]))
		return r
	}
	r.off = 1
	return r
}

func (r *recordReader) next(n int) []byte {
	if r.err != nil {
		return nil
	}
	if n < 0 || len(r.buf)-r.off < n {
		r.err = ErrRecordTruncated
		return nil
	}
	b := r.buf[r.off : r.off+n]
	r.off += n
	return b
}

func (r *recordReader) uint64() uint64 {
	if b := r.next(8); b != nil {
		return binary.LittleEndian.Uint64(b)
	}
	return 0
}

func (r *recordReader) int64() int64 {
	return int64(r.uint64())
}

func (r *recordReader) uint32() uint32 {
	if b := r.next(4); b != nil {
		return binary.LittleEndian.Uint32(b)
	}
	return 0
}

func (r *recordReader) bool() bool {
	if b := r.next(1); b != nil {
		return b[0] != 0
	}
	return false
}

func (r *recordReader) address() (a proto.AccountAddress) {
	if b := r.next(len(a)); b != nil {
		copy(a[:], b)
	}
	return
}

func (r *recordReader) string() string {
	l := r.uint32()
	if r.err != nil {
		return ""
	}
	if uint64(l) > uint64(len(r.buf)-r.off) {
		r.err = ErrRecordTruncated
		return ""
	}
	return string(r.next(int(l)))
}

func (r *recordReader) finish() error {
	if r.err == nil && r.off != len(r.buf) {
		r.err = ErrRecordTrailingBytes
	}
	return r.err
}
