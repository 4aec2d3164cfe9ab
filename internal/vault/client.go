// Package vault stores rate provider credentials in HashiCorp Vault.
// When Vault is disabled the client falls back to an in-memory store so
// local development works without a Vault instance.
package vault

import (
	"context"
	"fmt"
	"sync"

	"github.com/hashicorp/vault/api"

	"github.com/camayank/transfer-pricing-platform/config"
)

// ProviderCredentials represents credentials for one exchange rate provider
type ProviderCredentials struct {
	Provider string `json:"provider"`
	APIKey   string `json:"api_key"`
	BaseURL  string `json:"base_url"`
}

// Client wraps the HashiCorp Vault client
type Client struct {
	client       *api.Client
	config       config.VaultConfig
	mu           sync.RWMutex
	cache        map[string]*ProviderCredentials // provider -> credentials
	cacheEnabled bool
}

// NewClient creates a new Vault client
func NewClient(cfg config.VaultConfig) (*Client, error) {
	if !cfg.Enabled {
		return &Client{
			config:       cfg,
			cache:        make(map[string]*ProviderCredentials),
			cacheEnabled: true,
		}, nil
	}

	vaultConfig := api.DefaultConfig()
	vaultConfig.Address = cfg.Address

	if cfg.TLSEnabled && cfg.CACert != "" {
		tlsConfig := &api.TLSConfig{
			CACert: cfg.CACert,
		}
		if err := vaultConfig.ConfigureTLS(tlsConfig); err != nil {
			return nil, fmt.Errorf("failed to configure TLS: %w", err)
		}
	}

	client, err := api.NewClient(vaultConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create vault client: %w", err)
	}

	client.SetToken(cfg.Token)

	return &Client{
		client:       client,
		config:       cfg,
		cache:        make(map[string]*ProviderCredentials),
		cacheEnabled: true,
	}, nil
}

// StoreCredentials stores provider credentials in Vault
func (c *Client) StoreCredentials(ctx context.Context, creds ProviderCredentials) error {
	if !c.config.Enabled {
		c.mu.Lock()
		c.cache[creds.Provider] = &creds
		c.mu.Unlock()
		return nil
	}

	path := c.secretPath(creds.Provider)

	secretData := map[string]interface{}{
		"data": map[string]interface{}{
			"provider": creds.Provider,
			"api_key":  creds.APIKey,
			"base_url": creds.BaseURL,
		},
	}

	_, err := c.client.Logical().WriteWithContext(ctx, path, secretData)
	if err != nil {
		return fmt.Errorf("failed to store credentials in vault: %w", err)
	}

	if c.cacheEnabled {
		c.mu.Lock()
		c.cache[creds.Provider] = &creds
		c.mu.Unlock()
	}

	return nil
}

// GetCredentials retrieves provider credentials from Vault
func (c *Client) GetCredentials(ctx context.Context, provider string) (*ProviderCredentials, error) {
	if c.cacheEnabled {
		c.mu.RLock()
		if cached, ok := c.cache[provider]; ok {
			c.mu.RUnlock()
			return cached, nil
		}
		c.mu.RUnlock()
	}

	if !c.config.Enabled {
		return nil, fmt.Errorf("credentials for %s not found and vault is disabled", provider)
	}

	path := c.secretPath(provider)

	secret, err := c.client.Logical().ReadWithContext(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials from vault: %w", err)
	}

	if secret == nil || secret.Data == nil {
		return nil, fmt.Errorf("credentials for %s not found", provider)
	}

	data, ok := secret.Data["data"].(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("invalid secret format")
	}

	creds := &ProviderCredentials{
		Provider: getString(data, "provider"),
		APIKey:   getString(data, "api_key"),
		BaseURL:  getString(data, "base_url"),
	}

	if c.cacheEnabled {
		c.mu.Lock()
		c.cache[provider] = creds
		c.mu.Unlock()
	}

	return creds, nil
}

// DeleteCredentials removes provider credentials from Vault and the cache
func (c *Client) DeleteCredentials(ctx context.Context, provider string) error {
	c.mu.Lock()
	delete(c.cache, provider)
	c.mu.Unlock()

	if !c.config.Enabled {
		return nil
	}

	path := c.secretPath(provider)
	if _, err := c.client.Logical().DeleteWithContext(ctx, path); err != nil {
		return fmt.Errorf("failed to delete credentials from vault: %w", err)
	}

	return nil
}

// ClearCache drops all cached credentials, forcing re-reads from Vault
func (c *Client) ClearCache() {
	c.mu.Lock()
	c.cache = make(map[string]*ProviderCredentials)
	c.mu.Unlock()
}

// Enabled reports whether the client is backed by a real Vault instance
func (c *Client) Enabled() bool {
	return c.config.Enabled
}

// secretPath builds the KV v2 data path for a provider's credentials
func (c *Client) secretPath(provider string) string {
	mount := c.config.MountPath
	if mount == "" {
		mount = "secret"
	}
	return fmt.Sprintf("%s/data/%s/%s", mount, c.config.SecretPath, provider)
}

func getString(data map[string]interface{}, key string) string {
	if v, ok := data[key].(string); ok {
		return v
	}
	return ""
}
