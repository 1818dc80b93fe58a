package predict

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/ivlev/censor/internal/logging"
)

const (
	// Region is the only location AutoML Vision object detection models are served from.
	Region = "us-central1"

	cloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"
	maxErrorBody       = 64 << 10
)

type AutoMLOptions struct {
	Endpoint       string
	ProjectID      string
	ModelID        string
	ScoreThreshold float64
	Timeout        time.Duration // 0 means no deadline

	// HTTPClient and TokenSource default to http.DefaultClient and Google
	// application default credentials.
	HTTPClient  *http.Client
	TokenSource oauth2.TokenSource
}

// AutoMLClient calls the AutoML v1beta1 predict REST method. Calls are
// single-shot: no retries, no backoff.
type AutoMLClient struct {
	opts   AutoMLOptions
	client *http.Client
	logger *zap.Logger

	mu     sync.Mutex
	tokens oauth2.TokenSource
}

func NewAutoMLClient(opts AutoMLOptions, logger *zap.Logger) *AutoMLClient {
	client := opts.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AutoMLClient{
		opts:   opts,
		client: client,
		logger: logger,
		tokens: opts.TokenSource,
	}
}

// ModelName is the resource name of a model in the fixed region.
func ModelName(projectID, modelID string) string {
	return fmt.Sprintf("projects/%s/locations/%s/models/%s", projectID, Region, modelID)
}

type predictRequest struct {
	Payload requestPayload    `json:"payload"`
	Params  map[string]string `json:"params,omitempty"`
}

type requestPayload struct {
	Image imagePayload `json:"image"`
}

type imagePayload struct {
	ImageBytes []byte `json:"imageBytes"` // base64 on the wire
}

type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

func (c *AutoMLClient) Predict(ctx context.Context, image []byte) (*Response, error) {
	name := ModelName(c.opts.ProjectID, c.opts.ModelID)

	if c.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.Timeout)
		defer cancel()
	}

	token, err := c.token(ctx)
	if err != nil {
		return nil, logging.NewOperationError("authenticate", name, err)
	}

	body := predictRequest{Payload: requestPayload{Image: imagePayload{ImageBytes: image}}}
	if c.opts.ScoreThreshold > 0 {
		body.Params = map[string]string{
			"score_threshold": strconv.FormatFloat(c.opts.ScoreThreshold, 'f', -1, 64),
		}
	}
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	url := strings.TrimRight(c.opts.Endpoint, "/") + "/v1beta1/" + name + ":predict"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", requestID)
	token.SetAuthHeader(req)

	c.logger.Debug("sending prediction request",
		zap.String("model", name),
		zap.String("request_id", requestID),
		zap.Int("image_bytes", len(image)))

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, logging.NewRequestError("predict", name, requestID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, logging.NewRequestError("predict", name, requestID, statusError(resp))
	}

	var result Response
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, logging.NewRequestError("predict", name, requestID, fmt.Errorf("decode response: %w", err))
	}

	c.logger.Debug("prediction received",
		zap.String("request_id", requestID),
		zap.Int("payloads", len(result.Payload)))
	return &result, nil
}

func (c *AutoMLClient) token(ctx context.Context) (*oauth2.Token, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.tokens == nil {
		// the source outlives this call, so it must not inherit its deadline
		ts, err := google.DefaultTokenSource(context.WithoutCancel(ctx), cloudPlatformScope)
		if err != nil {
			return nil, err
		}
		c.tokens = oauth2.ReuseTokenSource(nil, ts)
	}
	return c.tokens.Token()
}

func statusError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var apiErr apiError
	if err := json.Unmarshal(raw, &apiErr); err == nil && apiErr.Error.Message != "" {
		return fmt.Errorf("service returned %d %s: %s", resp.StatusCode, apiErr.Error.Status, apiErr.Error.Message)
	}
	msg := strings.TrimSpace(string(raw))
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return fmt.Errorf("service returned %d: %s", resp.StatusCode, msg)
}
