// Package media relays image uploads to the external media host. The host
// stores the bytes and serves them from its CDN; we only keep the returned URL.
package media

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/google/uuid"
)

const uploadTimeout = 30 * time.Second

// Config holds the upload endpoint and credentials for the media host.
type Config struct {
	UploadURL string
	APIKey    string
}

// Client implements ports.MediaUploader over HTTP multipart uploads.
type Client struct {
	cfg  Config
	http *http.Client
}

func NewClient(cfg Config) *Client {
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: uploadTimeout},
	}
}

type uploadResponse struct {
	SecureURL string `json:"secure_url"`
}

// Upload posts the raw bytes as a multipart form and returns the durable URL
// assigned by the host.
func (c *Client) Upload(ctx context.Context, data []byte, folder string) (string, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	if err := w.WriteField("folder", folder); err != nil {
		return "", fmt.Errorf("media upload: %w", err)
	}
	part, err := w.CreateFormFile("file", uuid.NewString())
	if err != nil {
		return "", fmt.Errorf("media upload: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("media upload: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("media upload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.UploadURL, &body)
	if err != nil {
		return "", fmt.Errorf("media upload: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("media upload: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("media upload: host returned %d: %s", resp.StatusCode, snippet)
	}

	var out uploadResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("media upload: decode response: %w", err)
	}
	if out.SecureURL == "" {
		return "", fmt.Errorf("media upload: host returned no url")
	}
	return out.SecureURL, nil
}
