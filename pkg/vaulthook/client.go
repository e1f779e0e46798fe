package vaulthook

import (
	"context"
	"errors"
	"net/http"

	vaultapi "github.com/hashicorp/vault/api"
)

// Client is the handle the hook forwards to. Implementations must be safe
// for concurrent use once constructed.
type Client interface {
	// Address returns the base URL the client is bound to.
	Address() string

	// Read returns the secret stored at path, or nil if nothing is there.
	Read(ctx context.Context, path string) (*vaultapi.Secret, error)

	// Write stores data at path and reports whether Vault accepted it.
	Write(ctx context.Context, path string, data map[string]interface{}) (bool, error)

	// Delete removes whatever is stored at path.
	Delete(ctx context.Context, path string) error

	// IsAuthenticated reports whether the client's token is accepted.
	IsAuthenticated(ctx context.Context) (bool, error)
}

// ClientConfig carries what a ClientFactory needs to build a Client.
type ClientConfig struct {
	Address  string
	Token    string
	CertFile string
	KeyFile  string
}

// ClientFactory builds a Client. The hook calls it at most once per
// successful construction.
type ClientFactory func(cfg ClientConfig) (Client, error)

// vaultClient implements Client on top of the Vault API client.
type vaultClient struct {
	client *vaultapi.Client
}

// NewVaultClient is the default ClientFactory.
func NewVaultClient(cfg ClientConfig) (Client, error) {
	config := vaultapi.DefaultConfig()
	if config.Error != nil {
		return nil, config.Error
	}

	config.Address = cfg.Address
	// Failures surface to the caller immediately.
	config.MaxRetries = 0

	// DefaultConfig loads VAULT_CLIENT_CERT/VAULT_CLIENT_KEY; only the
	// connection's own pair may be presented.
	if t, ok := config.HttpClient.Transport.(*http.Transport); ok && t.TLSClientConfig != nil {
		t.TLSClientConfig.GetClientCertificate = nil
		t.TLSClientConfig.Certificates = nil
	}

	if cfg.CertFile != "" || cfg.KeyFile != "" {
		if err := config.ConfigureTLS(&vaultapi.TLSConfig{
			ClientCert: cfg.CertFile,
			ClientKey:  cfg.KeyFile,
		}); err != nil {
			return nil, err
		}
	}

	client, err := vaultapi.NewClient(config)
	if err != nil {
		return nil, err
	}

	// NewClient picks up VAULT_TOKEN and VAULT_NAMESPACE from the
	// environment; the connection record is authoritative.
	if cfg.Token != "" {
		client.SetToken(cfg.Token)
	} else {
		client.ClearToken()
	}
	client.ClearNamespace()

	return &vaultClient{client: client}, nil
}

func (c *vaultClient) Address() string {
	return c.client.Address()
}

func (c *vaultClient) Read(ctx context.Context, path string) (*vaultapi.Secret, error) {
	return c.client.Logical().ReadWithContext(ctx, path)
}

func (c *vaultClient) Write(ctx context.Context, path string, data map[string]interface{}) (bool, error) {
	if _, err := c.client.Logical().WriteWithContext(ctx, path, data); err != nil {
		return false, err
	}
	return true, nil
}

func (c *vaultClient) Delete(ctx context.Context, path string) error {
	_, err := c.client.Logical().DeleteWithContext(ctx, path)
	return err
}

func (c *vaultClient) IsAuthenticated(ctx context.Context) (bool, error) {
	_, err := c.client.Auth().Token().LookupSelfWithContext(ctx)
	if err == nil {
		return true, nil
	}

	var respErr *vaultapi.ResponseError
	if errors.As(err, &respErr) {
		switch respErr.StatusCode {
		case http.StatusForbidden, http.StatusUnauthorized:
			return false, nil
		}
	}
	return false, err
}
