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

package interfaces

import (
	"encoding/json"
	"reflect"
	"sync"

	"github.com/pkg/errors"

	"github.com/CovenantSQL/crowdfund/utils"
)

var (
	txTypeMapping sync.Map
	txType        = reflect.TypeOf((*Transaction)(nil)).Elem()
	txWrapperType = reflect.TypeOf((*TransactionWrapper)(nil))

	// ErrInvalidTransactionType represents invalid transaction type read from encoded bytes.
	ErrInvalidTransactionType = errors.New("invalid transaction type, can not instantiate transaction")
	// ErrTransactionRegistration represents invalid transaction object type being registered.
	ErrTransactionRegistration = errors.New("transaction register failed")
	// ErrNilTransaction represents an attempt to encode an empty wrapper.
	ErrNilTransaction = errors.New("nil transaction")
)

// txEnvelope is the msgpack layout of an encoded transaction: the type tag
// followed by the msgpack form of the concrete transaction.
type txEnvelope struct {
	TxType  TransactionType
	Payload []byte
}

// TransactionWrapper is the wrapper for Transaction interface for serialization/deserialization purpose.
type TransactionWrapper struct {
	Transaction
}

// WrapTransaction wraps transaction in wrapper.
func WrapTransaction(tx Transaction) *TransactionWrapper {
	return &TransactionWrapper{
		Transaction: tx,
	}
}

// Unwrap returns transaction within wrapper.
func (w *TransactionWrapper) Unwrap() Transaction {
	return w.Transaction
}

// MarshalJSON implements json.Marshaler interface.
func (w TransactionWrapper) MarshalJSON() ([]byte, error) {
	return json.Marshal(w.Transaction)
}

// UnmarshalJSON implements json.Unmarshaler interface, the concrete type is
// detected from the TxType field.
func (w *TransactionWrapper) UnmarshalJSON(data []byte) (err error) {
	var typeDetector TransactionTypeMixin
	typeDetector.SetTransactionType(TransactionTypeNumber)

	if err = json.Unmarshal(data, &typeDetector); err != nil {
		err = errors.Wrap(err, "try decode transaction failed")
		return
	}

	t := typeDetector.GetTransactionType()
	if t == TransactionTypeNumber {
		err = errors.Wrapf(ErrInvalidTransactionType, "invalid tx type: %d", t)
		return
	}

	if w.Transaction, err = NewTransaction(t); err != nil {
		err = errors.Wrapf(err, "instantiate transaction type %s failed", t.String())
		return
	}

	return json.Unmarshal(data, w.Transaction)
}

// EncodeTransaction encodes tx into the msgpack envelope used by the
// transaction log and the wire.
func EncodeTransaction(tx Transaction) (b []byte, err error) {
	if w, ok := tx.(*TransactionWrapper); ok {
		tx = w.Unwrap()
	}
	if tx == nil {
		err = ErrNilTransaction
		return
	}
	if v := reflect.ValueOf(tx); v.Kind() == reflect.Ptr && v.IsNil() {
		err = ErrNilTransaction
		return
	}
	payload, err := utils.EncodeMsgPack(tx)
	if err != nil {
		err = errors.Wrap(err, "encode transaction payload failed")
		return
	}
	enc, err := utils.EncodeMsgPack(&txEnvelope{
		TxType:  tx.GetTransactionType(),
		Payload: payload.Bytes(),
	})
	if err != nil {
		err = errors.Wrap(err, "encode transaction envelope failed")
		return
	}
	b = enc.Bytes()
	return
}

// DecodeTransaction reverses EncodeTransaction.
func DecodeTransaction(b []byte) (tx Transaction, err error) {
	var env txEnvelope
	if err = utils.DecodeMsgPack(b, &env); err != nil {
		err = errors.Wrap(err, "decode transaction envelope failed")
		return
	}
	if tx, err = NewTransaction(env.TxType); err != nil {
		return
	}
	if err = utils.DecodeMsgPack(env.Payload, tx); err != nil {
		tx = nil
		err = errors.Wrapf(err, "decode %s payload failed", env.TxType.String())
		return
	}
	if tx.GetTransactionType() != env.TxType {
		tx = nil
		err = errors.Wrapf(ErrInvalidTransactionType, "envelope type %s mismatch", env.TxType.String())
	}
	return
}

// RegisterTransaction registers transaction type to wrapper.
func RegisterTransaction(t TransactionType, tx Transaction) {
	if tx == nil {
		panic(ErrTransactionRegistration)
	}
	rt := reflect.TypeOf(tx)
	if rt == txWrapperType {
		panic(ErrTransactionRegistration)
	}
	txTypeMapping.Store(t, rt)
}

// NewTransaction instantiates new transaction object.
func NewTransaction(t TransactionType) (tx Transaction, err error) {
	var (
		d  interface{}
		ok bool
		rt reflect.Type
	)

	if d, ok = txTypeMapping.Load(t); !ok {
		err = errors.Wrapf(ErrInvalidTransactionType, "transaction %d not registered", t)
		return
	}
	rt = d.(reflect.Type)

	if !rt.Implements(txType) || rt == txWrapperType {
		err = errors.Wrap(ErrInvalidTransactionType, "invalid transaction registered")
		return
	}

	var rv reflect.Value
	if rt.Kind() == reflect.Ptr {
		rv = reflect.New(rt.Elem())
	} else {
		rv = reflect.New(rt).Elem()
	}

	rawTx := rv.Interface()
	tx = rawTx.(Transaction)

	if txTypeAwareness, ok := rawTx.(ContainsTransactionTypeMixin); ok {
		txTypeAwareness.SetTransactionType(t)
	}

	return
}
