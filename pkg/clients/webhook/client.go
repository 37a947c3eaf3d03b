// Package webhook delivers upload notifications to an external endpoint.
package webhook

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/oreka/backend/internal/config"
)

// Client exposes the notification operation used by the ingestion
// pipeline.
type Client interface {
	NotifyUpload(ctx context.Context, event UploadEvent) error
}

// UploadEvent is the JSON payload POSTed after each processed upload.
type UploadEvent struct {
	FileName    string    `json:"file_name"`
	FileType    string    `json:"file_type"`
	Status      string    `json:"status"`
	RecordCount int       `json:"record_count"`
	ProcessedAt time.Time `json:"processed_at"`
}

// APIClient is a resty-backed implementation of Client.
type APIClient struct {
	httpClient *resty.Client
	url        string
}

// NewClient builds a webhook client using the provided configuration.
func NewClient(cfg config.NotifyConfig) *APIClient {
	restyClient := resty.New()
	restyClient.
		SetHeader("Content-Type", "application/json").
		SetTimeout(10 * time.Second)

	return &APIClient{
		httpClient: restyClient,
		url:        cfg.WebhookURL,
	}
}

// NotifyUpload posts the event to the configured URL. Any non-2xx
// response is an error; the caller decides whether that matters.
func (c *APIClient) NotifyUpload(ctx context.Context, event UploadEvent) error {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(event).
		Post(c.url)
	if err != nil {
		return fmt.Errorf("send upload notification: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		return fmt.Errorf("upload notification rejected: status=%d body=%s", resp.StatusCode(), resp.String())
	}

	return nil
}
