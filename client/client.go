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

// Package client submits signed crowdfund transactions and queries ledger
// records over the http api.
package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dghubble/sling"
	"github.com/pkg/errors"

	"github.com/CovenantSQL/crowdfund/api/models"
	"github.com/CovenantSQL/crowdfund/crypto"
	"github.com/CovenantSQL/crowdfund/crypto/asymmetric"
	"github.com/CovenantSQL/crowdfund/crypto/hash"
	pi "github.com/CovenantSQL/crowdfund/ledger/interfaces"
	"github.com/CovenantSQL/crowdfund/ledger/types"
	"github.com/CovenantSQL/crowdfund/proto"
	"github.com/CovenantSQL/crowdfund/utils/log"
)

// DefaultTimeout bounds every api call of a client built without one.
const DefaultTimeout = 10 * time.Second

// Client talks to one ledger api endpoint. Transactions are signed with the
// client key, so the sender of every transaction is the client address.
type Client struct {
	base *sling.Sling
	key  *asymmetric.PrivateKey
	addr proto.AccountAddress
}

// Option configures a Client.
type Option func(*clientOptions)

type clientOptions struct {
	httpClient *http.Client
}

// WithHTTPClient makes the client send requests with c.
func WithHTTPClient(c *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = c
	}
}

// New returns a client of the api at endpoint signing with key. A nil key
// gives a read only client.
func New(endpoint string, key *asymmetric.PrivateKey, opts ...Option) (c *Client, err error) {
	var u *url.URL
	if u, err = url.Parse(endpoint); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, errors.Wrapf(ErrInvalidEndpoint, "endpoint %q", endpoint)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	o := &clientOptions{httpClient: &http.Client{Timeout: DefaultTimeout}}
	for _, opt := range opts {
		opt(o)
	}

	c = &Client{
		base: sling.New().Client(o.httpClient).Base(u.String()).Set("Accept", "application/json"),
		key:  key,
	}
	if key != nil {
		if c.addr, err = crypto.PubKeyHash(key.PubKey()); err != nil {
			return nil, err
		}
	}
	return
}

// Address returns the account address of the client key.
func (c *Client) Address() proto.AccountAddress {
	return c.addr
}

// do sends the request built by s and decodes the response data into out.
func (c *Client) do(ctx context.Context, s *sling.Sling, out interface{}) (err error) {
	var req *http.Request
	if req, err = s.Request(); err != nil {
		return errors.Wrap(err, "build request failed")
	}
	var resp models.Response
	var httpResp *http.Response
	if httpResp, err = s.Do(req.WithContext(ctx), &resp, &resp); err != nil {
		return errors.Wrapf(err, "%s %s failed", req.Method, req.URL.Path)
	}
	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 || !resp.Success {
		return &APIError{
			StatusCode: httpResp.StatusCode,
			Code:       resp.Code,
			Category:   resp.Category,
			Message:    resp.Status,
			RequestID:  resp.RequestID,
		}
	}
	if out != nil && len(resp.Data) > 0 {
		if err = json.Unmarshal(resp.Data, out); err != nil {
			return errors.Wrap(err, "decode response data failed")
		}
	}
	return
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, c.base.New().Get(path), out)
}

// NextNonce returns the nonce of the next transaction of addr.
func (c *Client) NextNonce(ctx context.Context, addr proto.AccountAddress) (pi.AccountNonce, error) {
	account, err := c.Account(ctx, addr)
	if err != nil {
		if CodeOf(err) == "AccountNotFound" {
			return 0, nil
		}
		return 0, err
	}
	return pi.AccountNonce(account.NextNonce), nil
}

// Submit signs tx with the client key and submits it. The sender and nonce
// of tx must already be set.
func (c *Client) Submit(ctx context.Context, tx pi.Transaction) (receipt *models.Receipt, err error) {
	if c.key == nil {
		return nil, ErrNilKey
	}
	if err = tx.Sign(c.key); err != nil {
		return nil, errors.Wrap(err, "sign transaction failed")
	}
	var enc []byte
	if enc, err = pi.EncodeTransaction(tx); err != nil {
		return
	}
	receipt = &models.Receipt{}
	if err = c.do(ctx, c.base.New().Post("v1/tx").BodyJSON(&models.SubmitRequest{Tx: enc}), receipt); err != nil {
		log.WithFields(log.Fields{
			"type":  tx.GetTransactionType().String(),
			"nonce": tx.GetAccountNonce(),
		}).WithError(err).Debug("submit transaction failed")
		return nil, err
	}
	storeReceipt(ctx, receipt)
	return
}

func (c *Client) nonce(ctx context.Context) (pi.AccountNonce, error) {
	if c.key == nil {
		return 0, ErrNilKey
	}
	return c.NextNonce(ctx, c.addr)
}

// InitCounter creates the campaign counter with capacity.
func (c *Client) InitCounter(ctx context.Context, capacity uint64) (*models.Receipt, error) {
	nonce, err := c.nonce(ctx)
	if err != nil {
		return nil, err
	}
	return c.Submit(ctx, types.NewInitCounter(&types.InitCounterHeader{
		Sender:   c.addr,
		Nonce:    nonce,
		Capacity: capacity,
	}))
}

// CreateCampaign creates a campaign of the client and returns its address.
func (c *Client) CreateCampaign(ctx context.Context, title, description string, fundingGoal uint64) (
	campaign proto.AccountAddress, receipt *models.Receipt, err error,
) {
	var nonce pi.AccountNonce
	if nonce, err = c.nonce(ctx); err != nil {
		return
	}
	if receipt, err = c.Submit(ctx, types.NewCreateCampaign(&types.CreateCampaignHeader{
		Sender:      c.addr,
		Nonce:       nonce,
		Title:       title,
		Description: description,
		FundingGoal: fundingGoal,
	})); err != nil {
		return
	}
	campaign = types.CampaignAddress(c.addr, receipt.CampaignID)
	return
}

// Contribute locks amount of the client balance into campaign and returns
// the address of the new contribution.
func (c *Client) Contribute(ctx context.Context, campaign proto.AccountAddress, amount uint64) (
	contribution proto.AccountAddress, receipt *models.Receipt, err error,
) {
	var nonce pi.AccountNonce
	if nonce, err = c.nonce(ctx); err != nil {
		return
	}
	if receipt, err = c.Submit(ctx, types.NewContribute(&types.ContributeHeader{
		Sender:   c.addr,
		Nonce:    nonce,
		Campaign: campaign,
		Amount:   amount,
	})); err != nil {
		return
	}
	if len(receipt.Created) > 0 {
		contribution = receipt.Created[0]
	} else {
		contribution = types.ContributionAddress(c.addr, campaign, receipt.AppliedAt)
	}
	return
}

// Finalize resolves a campaign of the client.
func (c *Client) Finalize(ctx context.Context, campaign proto.AccountAddress) (*models.Receipt, error) {
	nonce, err := c.nonce(ctx)
	if err != nil {
		return nil, err
	}
	return c.Submit(ctx, types.NewFinalize(&types.FinalizeHeader{
		Sender:   c.addr,
		Nonce:    nonce,
		Campaign: campaign,
	}))
}

// ClaimRefund returns the funds of a contribution of the client to a failed campaign.
func (c *Client) ClaimRefund(ctx context.Context, campaign, contribution proto.AccountAddress) (*models.Receipt, error) {
	nonce, err := c.nonce(ctx)
	if err != nil {
		return nil, err
	}
	return c.Submit(ctx, types.NewClaimRefund(&types.ClaimRefundHeader{
		Sender:       c.addr,
		Nonce:        nonce,
		Campaign:     campaign,
		Contribution: contribution,
	}))
}

// Counter returns the campaign counter.
func (c *Client) Counter(ctx context.Context) (o *models.Counter, err error) {
	o = &models.Counter{}
	if err = c.get(ctx, "v1/counter", o); err != nil {
		return nil, err
	}
	return
}

// Campaign returns the campaign at addr.
func (c *Client) Campaign(ctx context.Context, addr proto.AccountAddress) (o *models.Campaign, err error) {
	o = &models.Campaign{}
	if err = c.get(ctx, "v1/campaigns/"+addr.String(), o); err != nil {
		return nil, err
	}
	return
}

// ContributionQuery filters a contribution list.
type ContributionQuery struct {
	Page     int   `url:"page,omitempty"`
	Size     int   `url:"size,omitempty"`
	Refunded *bool `url:"refunded,omitempty"`
}

// Contributions returns a page of the contributions of campaign.
func (c *Client) Contributions(ctx context.Context, campaign proto.AccountAddress, q *ContributionQuery) (
	o *models.ContributionList, err error,
) {
	s := c.base.New().Get("v1/campaigns/" + campaign.String() + "/contributions")
	if q != nil {
		s = s.QueryStruct(q)
	}
	o = &models.ContributionList{}
	if err = c.do(ctx, s, o); err != nil {
		return nil, err
	}
	return
}

// Custody returns the custody record at addr.
func (c *Client) Custody(ctx context.Context, addr proto.AccountAddress) (o *models.Custody, err error) {
	o = &models.Custody{}
	if err = c.get(ctx, "v1/custody/"+addr.String(), o); err != nil {
		return nil, err
	}
	return
}

// Contribution returns the contribution record at addr.
func (c *Client) Contribution(ctx context.Context, addr proto.AccountAddress) (o *models.Contribution, err error) {
	o = &models.Contribution{}
	if err = c.get(ctx, "v1/contributions/"+addr.String(), o); err != nil {
		return nil, err
	}
	return
}

// Account returns the balance account at addr.
func (c *Client) Account(ctx context.Context, addr proto.AccountAddress) (o *models.Account, err error) {
	o = &models.Account{}
	if err = c.get(ctx, "v1/accounts/"+addr.String(), o); err != nil {
		return nil, err
	}
	return
}

// Transaction returns an applied transaction.
func (c *Client) Transaction(ctx context.Context, h hash.Hash) (o *models.Transaction, err error) {
	o = &models.Transaction{}
	if err = c.get(ctx, "v1/tx/"+h.String(), o); err != nil {
		return nil, err
	}
	return
}

// Policy returns the deadline policy of the ledger.
func (c *Client) Policy(ctx context.Context) (o *models.Policy, err error) {
	o = &models.Policy{}
	if err = c.get(ctx, "v1/policy", o); err != nil {
		return nil, err
	}
	return
}
