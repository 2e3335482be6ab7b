// Copyright 2026 fanjia1024
// HashiCorp Vault secret store

package secrets

import (
	"context"
	"fmt"
	"path"
	"strings"

	vault "github.com/hashicorp/vault/api"

	"iiot-responder/pkg/config"
)

const (
	defaultVaultAddress = "http://localhost:8200"
	defaultVaultPrefix  = "secret"
	vaultValueField     = "value"
)

// vaultStore 每个 key 对应 <prefix>/<key> 下的 value 字段
type vaultStore struct {
	logical *vault.Logical
	prefix  string
}

// NewVaultStore 创建 Vault secret store；KV v1 与 v2 的读结果都能识别
func NewVaultStore(cfg config.VaultConfig) (Store, error) {
	vcfg := vault.DefaultConfig()
	vcfg.Address = defaultVaultAddress
	if cfg.Address != "" {
		vcfg.Address = cfg.Address
	}
	client, err := vault.NewClient(vcfg)
	if err != nil {
		return nil, fmt.Errorf("create vault client: %w", err)
	}
	if cfg.Token != "" {
		client.SetToken(cfg.Token)
	}
	prefix := strings.Trim(cfg.PathPrefix, "/")
	if prefix == "" {
		prefix = defaultVaultPrefix
	}
	return &vaultStore{logical: client.Logical(), prefix: prefix}, nil
}

func (v *vaultStore) path(key string) (string, error) {
	key = strings.Trim(key, "/")
	if key == "" {
		return "", fmt.Errorf("vault: empty secret key")
	}
	return path.Join(v.prefix, key), nil
}

func (v *vaultStore) Get(ctx context.Context, key string) (string, error) {
	p, err := v.path(key)
	if err != nil {
		return "", err
	}
	secret, err := v.logical.ReadWithContext(ctx, p)
	if err != nil {
		return "", fmt.Errorf("vault read %s: %w", p, err)
	}
	if secret == nil {
		return "", fmt.Errorf("secret not found: %s", key)
	}
	if s, ok := valueField(secret.Data); ok {
		return s, nil
	}
	// KV v2
	if inner, ok := secret.Data["data"].(map[string]interface{}); ok {
		if s, ok := valueField(inner); ok {
			return s, nil
		}
	}
	return "", fmt.Errorf("secret %s has no %q field", key, vaultValueField)
}

func valueField(data map[string]interface{}) (string, bool) {
	s, ok := data[vaultValueField].(string)
	return s, ok
}

func (v *vaultStore) Set(ctx context.Context, key string, value string) error {
	p, err := v.path(key)
	if err != nil {
		return err
	}
	if _, err := v.logical.WriteWithContext(ctx, p, map[string]interface{}{vaultValueField: value}); err != nil {
		return fmt.Errorf("vault write %s: %w", p, err)
	}
	return nil
}
