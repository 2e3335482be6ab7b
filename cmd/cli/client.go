// Copyright 2026 fanjia1024
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
)

// apiBaseURL --api 为空时取 RESPONDER_API_URL
func apiBaseURL(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv("RESPONDER_API_URL")
}

func newClient(baseURL string) *resty.Client {
	return resty.New().
		SetBaseURL(baseURL).
		SetTimeout(120 * time.Second).
		SetHeader("Content-Type", "application/json")
}

// remoteIncident POST /api/incidents 的响应中 CLI 用到的字段
type remoteIncident struct {
	RunID          string `json:"run_id"`
	Decision       string `json:"decision"`
	TicketCreated  bool   `json:"ticket_created"`
	TicketLocation string `json:"ticket_location"`
	PlanError      string `json:"plan_error"`
	State          struct {
		Scenario   string  `json:"scenario"`
		Confidence float64 `json:"confidence"`
		ReportMD   string  `json:"report_md"`
	} `json:"state"`
}

type remoteScenario struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Label       string `json:"label"`
}

func runIncidentRemote(ctx context.Context, baseURL, scenario, description string) (*remoteIncident, error) {
	var out remoteIncident
	resp, err := newClient(baseURL).R().
		SetContext(ctx).
		SetBody(map[string]string{"scenario": scenario, "description": description}).
		SetResult(&out).
		Post("/api/incidents")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("POST /api/incidents: %s", resp.String())
	}
	return &out, nil
}

func listScenariosRemote(ctx context.Context, baseURL string) ([]remoteScenario, error) {
	var out struct {
		Scenarios []remoteScenario `json:"scenarios"`
	}
	resp, err := newClient(baseURL).R().
		SetContext(ctx).
		SetResult(&out).
		Get("/api/scenarios")
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("GET /api/scenarios: %s", resp.String())
	}
	return out.Scenarios, nil
}

func prettyJSON(v interface{}) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}
