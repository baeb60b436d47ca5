package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/portiq/assist-go/internal/config"
)

// RemoteBackend talks to the procurement platform's assistant API.
type RemoteBackend struct {
	cfg    config.BackendConfig
	client *http.Client
}

// NewRemoteBackend creates a RemoteBackend from config.
func NewRemoteBackend(cfg config.BackendConfig) *RemoteBackend {
	return &RemoteBackend{
		cfg:    cfg,
		client: &http.Client{},
	}
}

// SendMessage posts a chat message to the assistant endpoint.
func (b *RemoteBackend) SendMessage(ctx context.Context, req MessageRequest) (*Reply, error) {
	var reply Reply
	if err := b.post(ctx, "/api/v1/assistant/message", req, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}

// ExecuteAction posts an action identifier and params to the execution
// endpoint.
func (b *RemoteBackend) ExecuteAction(ctx context.Context, req ActionRequest) (*ActionResult, error) {
	var result ActionResult
	if err := b.post(ctx, "/api/v1/assistant/actions/execute", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (b *RemoteBackend) post(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.cfg.BaseURL+path, bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if b.cfg.APIKey != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", b.cfg.APIKey))
	}

	resp, err := b.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
