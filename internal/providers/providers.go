// Package providers wraps the third-party services Brayn depends on: text and
// image generation, background removal, object storage, PDF text extraction,
// outbound mail and payment orders. Every client is constructed explicitly and
// handed to the services that need it.
package providers

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) ([]byte, error)
}

type BackgroundRemover interface {
	RemoveBackground(ctx context.Context, image []byte, filename string) ([]byte, error)
}

type ObjectStore interface {
	// Upload stores data under folder and returns its public URL.
	Upload(ctx context.Context, folder string, data []byte, contentType string) (string, error)
}

type PDFExtractor interface {
	ExtractText(data []byte) (string, error)
}

type Mailer interface {
	Send(ctx context.Context, to, subject, html string) error
}

type PaymentGateway interface {
	CreateOrder(ctx context.Context, amount int64, currency, receipt string) (map[string]interface{}, error)
}

// maxErrorBody bounds how much of a failed response is kept for diagnostics.
const maxErrorBody = 4 << 10

func statusError(provider string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if len(body) == 0 {
		return fmt.Errorf("%s API error: status %d", provider, resp.StatusCode)
	}
	return fmt.Errorf("%s API error: status %d: %s", provider, resp.StatusCode, body)
}
