package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/meshforge/meshview/internal/logger"
)

// Client errors.
var (
	// ErrGenerationService covers upstream success:false responses and
	// non-OK statuses from the generation service.
	ErrGenerationService = errors.New("generation service error")
	// ErrNetworkFailure covers unreachable asset bytes.
	ErrNetworkFailure = errors.New("network failure")
)

// Client talks to the generation service and history store over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the service at baseURL.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// GenerateFromText requests a model generated from a text description.
func (c *Client) GenerateFromText(ctx context.Context, req TextRequest) (*GenerateResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	return c.postGenerate(ctx, "/api/generate/text", "application/json", bytes.NewReader(body))
}

// GenerateFromImage requests a model generated from an uploaded image.
func (c *Client) GenerateFromImage(ctx context.Context, filename string, image []byte) (*GenerateResponse, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(image); err != nil {
		return nil, err
	}
	if err := writer.Close(); err != nil {
		return nil, err
	}
	return c.postGenerate(ctx, "/api/generate/image", writer.FormDataContentType(), &buf)
}

// Refine requests the refinement stage for a previously generated preview,
// keyed by its task identifier.
func (c *Client) Refine(ctx context.Context, taskID string) (*GenerateResponse, error) {
	body, err := json.Marshal(map[string]string{"task_id": taskID})
	if err != nil {
		return nil, err
	}
	return c.postGenerate(ctx, "/api/refine", "application/json", bytes.NewReader(body))
}

func (c *Client) postGenerate(ctx context.Context, path, contentType string, body io.Reader) (*GenerateResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationService, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d", ErrGenerationService, resp.StatusCode)
	}

	var gen GenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&gen); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrGenerationService, err)
	}
	if !gen.Success {
		msg := gen.Message
		if msg == "" {
			msg = "generation failed"
		}
		return nil, fmt.Errorf("%w: %s", ErrGenerationService, msg)
	}

	logger.Debug("generation response",
		zap.String("model_id", gen.ModelID),
		zap.String("model_url", gen.ModelURL),
		zap.Float64("quality", gen.QualityScore),
	)
	return &gen, nil
}

// History returns the generated-model records, normalized to the canonical
// shape regardless of the store's key spelling.
func (c *Client) History(ctx context.Context) ([]ModelRecord, error) {
	var records []ModelRecord
	if err := c.getJSON(ctx, "/api/history", &records); err != nil {
		return nil, err
	}
	return records, nil
}

// Stats returns the statistics aggregator's summary.
func (c *Client) Stats(ctx context.Context) (*Stats, error) {
	var stats Stats
	if err := c.getJSON(ctx, "/api/stats", &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrGenerationService, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrGenerationService, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrGenerationService, err)
	}
	return nil
}

// FetchAsset retrieves raw asset bytes. Relative asset URLs (as the service
// returns for its own files) are resolved against the service base URL.
func (c *Client) FetchAsset(ctx context.Context, assetURL string) ([]byte, error) {
	resolved := c.ResolveURL(assetURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, resolved, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkFailure, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkFailure, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d for %s", ErrNetworkFailure, resp.StatusCode, resolved)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkFailure, err)
	}
	return data, nil
}

// ResolveURL resolves a possibly relative asset URL against the service
// base URL.
func (c *Client) ResolveURL(assetURL string) string {
	u, err := url.Parse(assetURL)
	if err != nil || u.IsAbs() {
		return assetURL
	}
	return c.baseURL + "/" + strings.TrimLeft(assetURL, "/")
}
