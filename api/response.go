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
	"fmt"
	"net/http"

	uuid "github.com/satori/go.uuid"

	"github.com/CovenantSQL/crowdfund/api/models"
	"github.com/CovenantSQL/crowdfund/ledger"
	"github.com/CovenantSQL/crowdfund/utils/log"
)

// RequestIDHeader carries the id assigned to every api request.
const RequestIDHeader = "X-Request-Id"

func sendResponse(code int, success bool, msg interface{}, data interface{}, rw http.ResponseWriter) {
	msgStr := "ok"
	if msg != nil {
		msgStr = fmt.Sprint(msg)
	}
	resp := &models.Response{
		Status:    msgStr,
		Success:   success,
		RequestID: rw.Header().Get(RequestIDHeader),
	}
	if err, ok := msg.(error); ok && !success {
		resp.Code = codeOf(err)
		resp.Category = ledger.CategoryOf(err).String()
	}
	var err error
	if resp.Data, err = json.Marshal(data); err != nil {
		log.WithError(err).Error("encode response data failed")
		code, resp.Success, resp.Status, resp.Data = http.StatusInternalServerError, false, err.Error(), nil
	}
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(code)
	if err = json.NewEncoder(rw).Encode(resp); err != nil {
		log.WithError(err).Debug("write response failed")
	}
}

func sendError(err error, rw http.ResponseWriter) {
	status := statusOf(err)
	entry := log.WithFields(log.Fields{
		"request_id": rw.Header().Get(RequestIDHeader),
		"status":     status,
	}).WithError(err)
	if status >= http.StatusInternalServerError {
		entry.Error("api request failed")
	} else {
		entry.Debug("api request rejected")
	}
	sendResponse(status, false, err, nil, rw)
}

// requestID assigns a fresh id to every request.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.Must(uuid.NewV4()).String()
		}
		rw.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(rw, r)
	})
}

// recoveryLogger routes recovered handler panics to the log.
type recoveryLogger struct{}

func (recoveryLogger) Println(v ...interface{}) {
	log.Error(v...)
}
