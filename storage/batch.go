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

package storage

import (
	"github.com/syndtr/goleveldb/leveldb"
)

type batchOp struct {
	key   string
	value []byte
	del   bool
}

// Batch collects writes to be applied atomically by Storage.Write.
type Batch struct {
	batch *leveldb.Batch
	ops   []batchOp
}

// NewBatch returns an empty batch.
func NewBatch() *Batch {
	return &Batch{batch: new(leveldb.Batch)}
}

// Put stores a copy of value under key.
func (b *Batch) Put(key, value []byte) {
	v := append([]byte(nil), value...)
	b.batch.Put(key, v)
	b.ops = append(b.ops, batchOp{key: string(key), value: v})
}

// Delete removes key.
func (b *Batch) Delete(key []byte) {
	b.batch.Delete(key)
	b.ops = append(b.ops, batchOp{key: string(key), del: true})
}

// Len returns the number of operations in the batch.
func (b *Batch) Len() int {
	return len(b.ops)
}
