package providers

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// ClipdropClient implements ImageGenerator and BackgroundRemover. The HTTP
// client carries a hard timeout; slow calls fail outward and are not retried.
type ClipdropClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

func NewClipdropClient(apiKey, baseURL string, timeout time.Duration) *ClipdropClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ClipdropClient{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (c *ClipdropClient) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if err := w.WriteField("prompt", prompt); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return c.post(ctx, "/text-to-image/v1", w.FormDataContentType(), &body)
}

func (c *ClipdropClient) RemoveBackground(ctx context.Context, image []byte, filename string) ([]byte, error) {
	if filename == "" {
		filename = "image"
	}

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("image_file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(image); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return c.post(ctx, "/remove-background/v1", w.FormDataContentType(), &body)
}

func (c *ClipdropClient) post(ctx context.Context, path, contentType string, body io.Reader) ([]byte, error) {
	if c.apiKey == "" {
		return nil, errors.New("clipdrop API key not configured")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("x-api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, statusError("clipdrop", resp)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, ErrEmptyResponse
	}
	return data, nil
}
