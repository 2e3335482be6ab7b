package secrets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"iiot-responder/pkg/config"
)

func fakeVault(t *testing.T, body map[string]interface{}) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Vault-Token") != "root" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		switch r.URL.Path {
		case "/v1/kv/planner/openai":
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(map[string]interface{}{"data": body})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestVaultStoreGet(t *testing.T) {
	cases := []struct {
		name string
		data map[string]interface{}
	}{
		{"kv v1", map[string]interface{}{"value": "sk-v1"}},
		{"kv v2", map[string]interface{}{"data": map[string]interface{}{"value": "sk-v1"}}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := fakeVault(t, tc.data)
			store, err := NewVaultStore(config.VaultConfig{Address: srv.URL, Token: "root", PathPrefix: "/kv/"})
			if err != nil {
				t.Fatalf("NewVaultStore: %v", err)
			}
			got, err := store.Get(context.Background(), "planner/openai")
			if err != nil {
				t.Fatalf("Get: %v", err)
			}
			if got != "sk-v1" {
				t.Errorf("got %q", got)
			}
		})
	}
}

func TestVaultStoreMissing(t *testing.T) {
	srv := fakeVault(t, map[string]interface{}{"other": "x"})
	store, err := NewVaultStore(config.VaultConfig{Address: srv.URL, Token: "root", PathPrefix: "kv"})
	if err != nil {
		t.Fatalf("NewVaultStore: %v", err)
	}
	ctx := context.Background()
	if _, err := store.Get(ctx, "planner/openai"); err == nil {
		t.Error("expected error for secret without value field")
	}
	if _, err := store.Get(ctx, "absent"); err == nil {
		t.Error("expected error for absent secret")
	}
	if _, err := store.Get(ctx, "/"); err == nil {
		t.Error("expected error for empty key")
	}
}
