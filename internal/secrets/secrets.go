package secrets

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
)

// Provider resolves opaque secret values by key. The core logic never
// touches it; only backend construction does.
type Provider interface {
	Get(ctx context.Context, key string) (string, error)
}

// FileProvider reads all secrets once from a local JSON object file
// (secrets.local.json). Used when ENVIRONMENT=LOCAL.
type FileProvider struct {
	values map[string]string
}

func NewFileProvider(path string) (*FileProvider, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read local secrets: %w", err)
	}
	values := make(map[string]string)
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("parse local secrets: %w", err)
	}
	return &FileProvider{values: values}, nil
}

func (p *FileProvider) Get(ctx context.Context, key string) (string, error) {
	v, ok := p.values[key]
	if !ok {
		return "", fmt.Errorf("secret %s not found in local file", key)
	}
	return v, nil
}

// ManagerProvider fetches secrets from GCP Secret Manager, caching each
// value for the process lifetime.
type ManagerProvider struct {
	client    *secretmanager.Client
	projectID string

	mu    sync.Mutex
	cache map[string]string
}

func NewManagerProvider(ctx context.Context, projectID string) (*ManagerProvider, error) {
	if projectID == "" {
		return nil, fmt.Errorf("GCP project ID is not set")
	}
	client, err := secretmanager.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create secret manager client: %w", err)
	}
	return &ManagerProvider{
		client:    client,
		projectID: projectID,
		cache:     make(map[string]string),
	}, nil
}

func (p *ManagerProvider) Get(ctx context.Context, key string) (string, error) {
	p.mu.Lock()
	if v, ok := p.cache[key]; ok {
		p.mu.Unlock()
		return v, nil
	}
	p.mu.Unlock()

	name := fmt.Sprintf("projects/%s/secrets/%s/versions/latest", p.projectID, key)
	resp, err := p.client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: name})
	if err != nil {
		return "", fmt.Errorf("access secret %s: %w", key, err)
	}
	value := string(resp.GetPayload().GetData())

	p.mu.Lock()
	p.cache[key] = value
	p.mu.Unlock()
	return value, nil
}

func (p *ManagerProvider) Close() error {
	return p.client.Close()
}
