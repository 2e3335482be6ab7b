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

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig_FromFile(t *testing.T) {
	dir := t.TempDir()
	yaml := `
data:
  root: "/srv/plant"
api:
  port: 9000
  host: "127.0.0.1"
planner:
  provider: "OpenAI"
  model: "gpt-4o-mini"
log:
  level: "debug"
`
	path := filepath.Join(dir, "test.yaml")
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.API.Port != 9000 {
		t.Errorf("API.Port: got %d", cfg.API.Port)
	}
	if cfg.API.Host != "127.0.0.1" {
		t.Errorf("API.Host: got %q", cfg.API.Host)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level: got %q", cfg.Log.Level)
	}
	if cfg.Planner.Provider != "openai" {
		t.Errorf("Planner.Provider: got %q", cfg.Planner.Provider)
	}
	if cfg.Knowledge.Dir != filepath.Join("/srv/plant", "kb") {
		t.Errorf("Knowledge.Dir: got %q", cfg.Knowledge.Dir)
	}
	if cfg.Ticket.Dir != "models" {
		t.Errorf("Ticket.Dir default: got %q", cfg.Ticket.Dir)
	}
}

func TestLoadConfig_ExpandsAPIKey(t *testing.T) {
	t.Setenv("RESPONDER_TEST_KEY", "sk-test")
	dir := t.TempDir()
	path := filepath.Join(dir, "planner.yaml")
	content := "planner:\n  provider: claude\n  api_key: \"${RESPONDER_TEST_KEY}\"\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Planner.APIKey != "sk-test" {
		t.Errorf("Planner.APIKey: got %q", cfg.Planner.APIKey)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Data.Root != "data" {
		t.Errorf("Data.Root: got %q", cfg.Data.Root)
	}
	if cfg.Knowledge.Dir != filepath.Join("data", "kb") {
		t.Errorf("Knowledge.Dir: got %q", cfg.Knowledge.Dir)
	}
	if cfg.Knowledge.SnippetChars != 300 {
		t.Errorf("Knowledge.SnippetChars: got %d", cfg.Knowledge.SnippetChars)
	}
	if cfg.Planner.Provider != "static" {
		t.Errorf("Planner.Provider: got %q", cfg.Planner.Provider)
	}
}
