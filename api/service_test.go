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
	"bytes"
	"encoding/json"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fortytw2/leaktest"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/CovenantSQL/crowdfund/api/models"
	"github.com/CovenantSQL/crowdfund/crypto"
	"github.com/CovenantSQL/crowdfund/crypto/asymmetric"
	"github.com/CovenantSQL/crowdfund/ledger"
	pi "github.com/CovenantSQL/crowdfund/ledger/interfaces"
	"github.com/CovenantSQL/crowdfund/ledger/types"
	"github.com/CovenantSQL/crowdfund/proto"
	"github.com/CovenantSQL/crowdfund/storage"
)

type testClient struct {
	*http.Client
	base string
}

func (c *testClient) do(method, path string, body interface{}) (status int, resp *models.Response) {
	var buf bytes.Buffer
	if body != nil {
		So(json.NewEncoder(&buf).Encode(body), ShouldBeNil)
	}
	req, err := http.NewRequest(method, c.base+path, &buf)
	So(err, ShouldBeNil)
	r, err := c.Do(req)
	So(err, ShouldBeNil)
	defer r.Body.Close()
	data, err := ioutil.ReadAll(r.Body)
	So(err, ShouldBeNil)
	if r.Header.Get("Content-Type") == "application/json" {
		resp = &models.Response{}
		So(json.Unmarshal(data, resp), ShouldBeNil)
		So(resp.RequestID, ShouldEqual, r.Header.Get(RequestIDHeader))
	} else {
		resp = &models.Response{Data: data}
	}
	return r.StatusCode, resp
}

func (c *testClient) submit(priv *asymmetric.PrivateKey, tx pi.Transaction) (int, *models.Response) {
	So(tx.Sign(priv), ShouldBeNil)
	enc, err := pi.EncodeTransaction(tx)
	So(err, ShouldBeNil)
	return c.do("POST", "/v1/tx", &models.SubmitRequest{Tx: enc})
}

func TestService(t *testing.T) {
	defer leaktest.CheckTimeout(t, 10*time.Second)()

	Convey("Given an api server over a test ledger", t, func() {
		priv, pub, err := asymmetric.GenSecp256k1KeyPair()
		So(err, ShouldBeNil)
		creator, err := crypto.PubKeyHash(pub)
		So(err, ShouldBeNil)

		st, err := storage.OpenMemory(storage.DefaultCacheSize)
		So(err, ShouldBeNil)
		defer st.Close()
		l := ledger.NewLedger(st, ledger.TestModePolicy(), ledger.NewManualClock(1500000000))
		_, err = l.InitGenesis(10, []ledger.GenesisAccount{{Address: creator, Balance: 1000}})
		So(err, ShouldBeNil)

		s := NewService(l, "/metrics")
		srv := httptest.NewServer(s.Handler())
		transport := &http.Transport{}
		defer func() {
			transport.CloseIdleConnections()
			srv.Close()
		}()
		c := &testClient{Client: &http.Client{Transport: transport}, base: srv.URL}

		Convey("Queries should serve the seeded state", func() {
			status, resp := c.do("GET", "/v1/counter", nil)
			So(status, ShouldEqual, http.StatusOK)
			So(resp.Success, ShouldBeTrue)
			var counter models.Counter
			So(json.Unmarshal(resp.Data, &counter), ShouldBeNil)
			So(counter.Capacity, ShouldEqual, 10)
			So(counter.Address, ShouldResemble, types.CounterAddress())

			status, resp = c.do("GET", "/v1/accounts/"+creator.String(), nil)
			So(status, ShouldEqual, http.StatusOK)
			var account models.Account
			So(json.Unmarshal(resp.Data, &account), ShouldBeNil)
			So(account.Balance, ShouldEqual, 1000)

			status, resp = c.do("GET", "/v1/policy", nil)
			So(status, ShouldEqual, http.StatusOK)
			var policy models.Policy
			So(json.Unmarshal(resp.Data, &policy), ShouldBeNil)
			So(policy.EnforceDeadline, ShouldBeFalse)
			So(policy.Production, ShouldBeFalse)
		})
		Convey("Bad arguments should be rejected", func() {
			status, resp := c.do("GET", "/v1/accounts/xyz", nil)
			So(status, ShouldEqual, http.StatusBadRequest)
			So(resp.Code, ShouldEqual, "InvalidArgument")

			status, resp = c.do("GET", "/v1/campaigns/"+types.CampaignAddress(creator, 1).String(), nil)
			So(status, ShouldEqual, http.StatusNotFound)
			So(resp.Code, ShouldEqual, "RecordNotFound")

			status, resp = c.do("POST", "/v1/tx", &models.SubmitRequest{Tx: []byte("junk")})
			So(status, ShouldEqual, http.StatusBadRequest)
			So(resp.Success, ShouldBeFalse)
		})
		Convey("Submitted transactions should be applied", func() {
			status, resp := c.submit(priv, types.NewCreateCampaign(&types.CreateCampaignHeader{
				Sender: creator, Title: "Garden", Description: "Seeds", FundingGoal: 500,
			}))
			So(status, ShouldEqual, http.StatusOK)
			var receipt models.Receipt
			So(json.Unmarshal(resp.Data, &receipt), ShouldBeNil)
			So(receipt.CampaignID, ShouldEqual, 1)
			campaign := types.CampaignAddress(creator, 1)
			So(receipt.Created, ShouldResemble, []proto.AccountAddress{campaign, types.CustodyAddress(campaign)})

			status, resp = c.submit(priv, types.NewContribute(&types.ContributeHeader{
				Sender: creator, Nonce: 1, Campaign: campaign, Amount: 0,
			}))
			So(status, ShouldEqual, http.StatusBadRequest)
			So(resp.Code, ShouldEqual, "InvalidContributionAmount")
			So(resp.Category, ShouldEqual, "Validation")

			status, resp = c.submit(priv, types.NewContribute(&types.ContributeHeader{
				Sender: creator, Nonce: 1, Campaign: campaign, Amount: 200,
			}))
			So(status, ShouldEqual, http.StatusOK)

			status, resp = c.do("GET", "/v1/campaigns/"+campaign.String(), nil)
			So(status, ShouldEqual, http.StatusOK)
			var view models.Campaign
			So(json.Unmarshal(resp.Data, &view), ShouldBeNil)
			So(view.LockedAmount, ShouldEqual, 200)
			So(view.CustodyBalance, ShouldEqual, 200)
			So(view.Contributions, ShouldEqual, 1)
			So(view.Outstanding, ShouldEqual, 200)

			status, resp = c.do("GET", "/v1/custody/"+types.CustodyAddress(campaign).String(), nil)
			So(status, ShouldEqual, http.StatusOK)
			var custody models.Custody
			So(json.Unmarshal(resp.Data, &custody), ShouldBeNil)
			So(custody.Balance, ShouldEqual, custody.LockedAmount)

			status, resp = c.do("GET", "/v1/campaigns/"+campaign.String()+"/contributions?page=1&size=10&refunded=false", nil)
			So(status, ShouldEqual, http.StatusOK)
			var list models.ContributionList
			So(json.Unmarshal(resp.Data, &list), ShouldBeNil)
			So(list.Contributions, ShouldHaveLength, 1)
			So(list.Pagination.Total, ShouldEqual, 1)

			status, resp = c.do("GET", "/v1/contributions/"+list.Contributions[0].Address.String(), nil)
			So(status, ShouldEqual, http.StatusOK)

			status, _ = c.do("GET", "/v1/campaigns/"+campaign.String()+"/contributions?size=abc", nil)
			So(status, ShouldEqual, http.StatusBadRequest)

			status, resp = c.do("GET", "/v1/tx/"+receipt.TxHash.String(), nil)
			So(status, ShouldEqual, http.StatusOK)
			var tx models.Transaction
			So(json.Unmarshal(resp.Data, &tx), ShouldBeNil)
			So(tx.Type, ShouldEqual, pi.TransactionTypeCreateCampaign.String())
			So(tx.Receipt.CampaignID, ShouldEqual, 1)

			status, resp = c.submit(priv, types.NewFinalize(&types.FinalizeHeader{
				Sender: creator, Nonce: 5, Campaign: campaign,
			}))
			So(status, ShouldEqual, http.StatusConflict)
			So(resp.Code, ShouldEqual, "InvalidAccountNonce")

			status, resp = c.do("GET", "/metrics", nil)
			So(status, ShouldEqual, http.StatusOK)
			So(string(resp.Data), ShouldContainSubstring, "crowdfund_tx_applied_total")
			So(string(resp.Data), ShouldContainSubstring, "crowdfund_ledger_campaigns")

			status, _ = c.do("GET", DebugMetricsPath, nil)
			So(status, ShouldEqual, http.StatusOK)
		})
	})
}

func TestStatusMapping(t *testing.T) {
	Convey("Ledger errors should map to http statuses", t, func() {
		So(statusOf(ledger.ErrProjectExpired), ShouldEqual, http.StatusConflict)
		So(statusOf(ledger.ErrUnauthorizedCreator), ShouldEqual, http.StatusForbidden)
		So(statusOf(ledger.ErrAmountOverflow), ShouldEqual, http.StatusUnprocessableEntity)
		So(statusOf(ledger.ErrEmptyTitle), ShouldEqual, http.StatusBadRequest)
		So(statusOf(ledger.ErrAccountNotFound), ShouldEqual, http.StatusNotFound)
		So(statusOf(storage.ErrStorageClosed), ShouldEqual, http.StatusInternalServerError)
		So(codeOf(ErrInvalidHash), ShouldEqual, "InvalidArgument")
	})
}
