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

package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	qs "github.com/derekstavis/go-qs"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/CovenantSQL/crowdfund/api/models"
	"github.com/CovenantSQL/crowdfund/crypto/hash"
	pi "github.com/CovenantSQL/crowdfund/ledger/interfaces"
	"github.com/CovenantSQL/crowdfund/proto"
)

func addressArg(r *http.Request) (addr proto.AccountAddress, err error) {
	if addr, err = proto.AccountAddressFromString(mux.Vars(r)[argAddress]); err != nil {
		err = errors.Wrap(ErrInvalidAddress, err.Error())
	}
	return
}

// listQuery holds the parsed query of a list request.
type listQuery struct {
	page, size int
	refunded   *bool
}

func parseListQuery(r *http.Request) (q *listQuery, err error) {
	var values map[string]interface{}
	if values, err = qs.Unmarshal(r.URL.RawQuery); err != nil {
		return nil, errors.Wrap(ErrInvalidQuery, err.Error())
	}
	q = &listQuery{}
	intArg := func(key string) (v int, err error) {
		raw, ok := values[key]
		if !ok {
			return
		}
		s, ok := raw.(string)
		if !ok {
			return 0, errors.Wrapf(ErrInvalidQuery, "%s is not a scalar", key)
		}
		if v, err = strconv.Atoi(s); err != nil {
			err = errors.Wrapf(ErrInvalidQuery, "%s: %v", key, err)
		}
		return
	}
	if q.page, err = intArg("page"); err != nil {
		return nil, err
	}
	if q.size, err = intArg("size"); err != nil {
		return nil, err
	}
	if raw, ok := values["refunded"]; ok {
		s, _ := raw.(string)
		var b bool
		if b, err = strconv.ParseBool(s); err != nil {
			return nil, errors.Wrapf(ErrInvalidQuery, "refunded: %v", err)
		}
		q.refunded = &b
	}
	return
}

func (s *Service) submit(rw http.ResponseWriter, r *http.Request) {
	var req models.SubmitRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody)).Decode(&req); err != nil {
		sendError(errors.Wrap(ErrInvalidRequest, err.Error()), rw)
		return
	}
	tx, err := pi.DecodeTransaction(req.Tx)
	if err != nil {
		sendError(errors.Wrap(ErrInvalidRequest, err.Error()), rw)
		return
	}
	receipt, err := s.ledger.Apply(tx)
	if err != nil {
		sendError(err, rw)
		return
	}
	sendResponse(http.StatusOK, true, nil, models.NewReceipt(receipt), rw)
}

func (s *Service) transaction(rw http.ResponseWriter, r *http.Request) {
	h, err := hash.NewHashFromStr(mux.Vars(r)[argHash])
	if err != nil {
		sendError(errors.Wrap(ErrInvalidHash, err.Error()), rw)
		return
	}
	tx, receipt, err := s.ledger.Transaction(*h)
	if err != nil {
		sendError(err, rw)
		return
	}
	sendResponse(http.StatusOK, true, nil, &models.Transaction{
		Hash:    *h,
		Type:    tx.GetTransactionType().String(),
		Tx:      pi.WrapTransaction(tx),
		Receipt: models.NewReceipt(receipt),
	}, rw)
}

func (s *Service) counter(rw http.ResponseWriter, r *http.Request) {
	o, err := s.ledger.Counter()
	if err != nil {
		sendError(err, rw)
		return
	}
	sendResponse(http.StatusOK, true, nil, models.NewCounter(o), rw)
}

func (s *Service) campaign(rw http.ResponseWriter, r *http.Request) {
	addr, err := addressArg(r)
	if err != nil {
		sendError(err, rw)
		return
	}
	summary, err := s.ledger.CampaignSummary(addr)
	if err != nil {
		sendError(err, rw)
		return
	}
	sendResponse(http.StatusOK, true, nil, models.NewCampaign(summary), rw)
}

func (s *Service) campaignContributions(rw http.ResponseWriter, r *http.Request) {
	addr, err := addressArg(r)
	if err != nil {
		sendError(err, rw)
		return
	}
	q, err := parseListQuery(r)
	if err != nil {
		sendError(err, rw)
		return
	}
	if _, err = s.ledger.Campaign(addr); err != nil {
		sendError(err, rw)
		return
	}
	entries, err := s.ledger.Contributions(addr)
	if err != nil {
		sendError(err, rw)
		return
	}

	list := make([]*models.Contribution, 0, len(entries))
	for _, e := range entries {
		if q.refunded != nil && e.IsRefunded != *q.refunded {
			continue
		}
		list = append(list, models.NewContribution(e.Address, e.Contribution))
	}
	p := models.NewPagination(q.page, q.size)
	start, end := p.Window(len(list))
	sendResponse(http.StatusOK, true, nil, &models.ContributionList{
		Campaign:      addr,
		Contributions: list[start:end],
		Pagination:    p,
	}, rw)
}

func (s *Service) custody(rw http.ResponseWriter, r *http.Request) {
	addr, err := addressArg(r)
	if err != nil {
		sendError(err, rw)
		return
	}
	o, err := s.ledger.Custody(addr)
	if err != nil {
		sendError(err, rw)
		return
	}
	var balance uint64
	if account, err := s.ledger.Account(addr); err == nil {
		balance = account.Balance
	}
	sendResponse(http.StatusOK, true, nil, models.NewCustody(addr, o, balance), rw)
}

func (s *Service) contribution(rw http.ResponseWriter, r *http.Request) {
	addr, err := addressArg(r)
	if err != nil {
		sendError(err, rw)
		return
	}
	o, err := s.ledger.Contribution(addr)
	if err != nil {
		sendError(err, rw)
		return
	}
	sendResponse(http.StatusOK, true, nil, models.NewContribution(addr, o), rw)
}

func (s *Service) account(rw http.ResponseWriter, r *http.Request) {
	addr, err := addressArg(r)
	if err != nil {
		sendError(err, rw)
		return
	}
	o, err := s.ledger.Account(addr)
	if err != nil {
		sendError(err, rw)
		return
	}
	sendResponse(http.StatusOK, true, nil, models.NewAccount(o), rw)
}

func (s *Service) policy(rw http.ResponseWriter, r *http.Request) {
	sendResponse(http.StatusOK, true, nil, models.NewPolicy(s.ledger.Policy()), rw)
}
