package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const ocrRequestTimeout = 2 * time.Minute

// Recognizer turns a rendered page image into text.
type Recognizer interface {
	Recognize(ctx context.Context, image []byte, contentType string) (string, error)
}

// OCRClient calls an external OCR service over HTTP. The service accepts
// a raw image body on POST /recognize and answers with {"text": ...}.
type OCRClient struct {
	baseURL string
	client  *http.Client
}

// NewOCRClient creates a client for the OCR service at baseURL.
func NewOCRClient(baseURL string) *OCRClient {
	return &OCRClient{
		baseURL: baseURL,
		client:  &http.Client{Timeout: ocrRequestTimeout},
	}
}

type ocrResponse struct {
	Text string `json:"text"`
}

func (c *OCRClient) Recognize(ctx context.Context, image []byte, contentType string) (string, error) {
	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/recognize",
		bytes.NewReader(image),
	)
	if err != nil {
		return "", fmt.Errorf("build ocr request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ocr request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("ocr service returned %d: %s", resp.StatusCode, body)
	}

	var parsed ocrResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode ocr response: %w", err)
	}

	return parsed.Text, nil
}
