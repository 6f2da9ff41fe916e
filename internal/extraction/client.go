// Package extraction is the client for the external text-extraction
// service, which owns format parsing (.pdf, .docx) and the OCR fallback
// for scanned documents and images. Plain text is short-circuited locally.
package extraction

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"
)

// Extractor turns raw file bytes into text.
type Extractor interface {
	Extract(ctx context.Context, data []byte, filename string) (string, error)
}

// Client posts files to the extraction service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

type extractResponse struct {
	Text string `json:"text"`
	OCR  bool   `json:"ocr_used"`
}

func NewClient(baseURL string, logger *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second, // OCR on scanned PDFs can be slow
		},
		logger: logger,
	}
}

// Extract returns the text content of the file. .txt files and anything
// that already decodes as UTF-8 never leave the process; other formats go
// to the extraction service, retried a few times since OCR workers restart.
func (c *Client) Extract(ctx context.Context, data []byte, filename string) (string, error) {
	lower := strings.ToLower(filename)
	if strings.HasSuffix(lower, ".txt") {
		return string(data), nil
	}
	if !strings.HasSuffix(lower, ".pdf") && !strings.HasSuffix(lower, ".docx") &&
		!strings.HasSuffix(lower, ".png") && !strings.HasSuffix(lower, ".jpg") &&
		!strings.HasSuffix(lower, ".jpeg") {
		if utf8.Valid(data) {
			return string(data), nil
		}
		return "", nil
	}

	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		text, err := c.post(ctx, data, filename)
		if err == nil {
			return text, nil
		}
		lastErr = err
		c.logger.Warn("Extraction attempt failed",
			zap.String("filename", filename), zap.Int("attempt", attempt+1), zap.Error(err))

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(time.Duration(attempt+1) * 200 * time.Millisecond):
		}
	}
	return "", fmt.Errorf("extraction failed after retries: %w", lastErr)
}

func (c *Client) post(ctx context.Context, data []byte, filename string) (string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("failed to build multipart body: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return "", fmt.Errorf("failed to write file part: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/api/v1/extract", &buf)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("extraction service returned status %d: %s", resp.StatusCode, string(body))
	}

	var result extractResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	return result.Text, nil
}
