// Package vault overlays secrets kept in HashiCorp Vault onto the loaded
// configuration.
package vault

import (
	"context"
	"fmt"

	"github.com/hashicorp/vault/api"
	"go.uber.org/zap"

	"github.com/seu-repo/appliance-store/pkg/config"
)

type SecretManager struct {
	client *api.Client
	log    *zap.Logger
}

func NewSecretManager(address, token string, log *zap.Logger) (*SecretManager, error) {
	cfg := api.DefaultConfig()
	cfg.Address = address

	client, err := api.NewClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("vault client: %w", err)
	}
	client.SetToken(token)

	return &SecretManager{client: client, log: log}, nil
}

// ReadString returns one field of a KV v2 secret. A missing secret or field
// yields "" and no error.
func (sm *SecretManager) ReadString(ctx context.Context, path, field string) (string, error) {
	secret, err := sm.client.Logical().ReadWithContext(ctx, path)
	if err != nil {
		return "", fmt.Errorf("vault read %s: %w", path, err)
	}
	if secret == nil {
		return "", nil
	}

	data, ok := secret.Data["data"].(map[string]interface{})
	if !ok {
		// KV v1 mounts keep fields at the top level.
		data = secret.Data
	}
	value, ok := data[field].(string)
	if !ok {
		return "", nil
	}
	return value, nil
}

// Apply replaces the database URL and SendGrid key with the values stored
// in Vault, when present.
func (sm *SecretManager) Apply(ctx context.Context, cfg *config.Config) error {
	dbURL, err := sm.ReadString(ctx, cfg.Vault.DatabasePath, "connection_string")
	if err != nil {
		return err
	}
	if dbURL != "" {
		cfg.Database.URL = dbURL
		sm.log.Info("Database credentials loaded from vault")
	}

	apiKey, err := sm.ReadString(ctx, cfg.Vault.EmailPath, "api_key")
	if err != nil {
		return err
	}
	if apiKey != "" {
		cfg.Email.APIKey = apiKey
		sm.log.Info("SendGrid API key loaded from vault")
	}
	return nil
}
