package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
)

const (
	// DefaultBaseURL is the production marketplace endpoint.
	DefaultBaseURL = "https://robocompute.xyz/api"

	// APIVersion is the versioned path segment appended to the base URL.
	APIVersion = "v1"

	// DefaultTimeout bounds every HTTP request.
	DefaultTimeout = 30 * time.Second

	// defaultRetryAfter is used when a 429 omits the Retry-After header.
	defaultRetryAfter = 60 * time.Second
)

// Signer produces a wallet signature over an arbitrary message. Real signing
// is an external collaborator; the SDK only needs the resulting string.
type Signer func(message string) (string, error)

// Base64Signer is a development stand-in that encodes the message instead of
// signing it. Production callers inject their wallet's signer.
func Base64Signer(message string) (string, error) {
	return base64.StdEncoding.EncodeToString([]byte(message)), nil
}

// TransportConfig configures a Transport.
type TransportConfig struct {
	// BaseURL overrides DefaultBaseURL, e.g. for a test server.
	BaseURL string
	APIKey  string
	// Signer signs method+path+timestamp per request. Defaults to
	// Base64Signer.
	Signer Signer
	// HTTPClient overrides the default 30s-timeout client.
	HTTPClient *http.Client
	Logger     *zerolog.Logger
}

// Transport turns a (method, path, body, query) tuple into either a parsed
// response or an *Error. It is stateless across calls apart from the shared
// connection pool.
type Transport struct {
	apiURL     string
	apiKey     string
	sign       Signer
	httpClient *http.Client
	log        zerolog.Logger

	now func() time.Time
}

// NewTransport creates a Transport.
func NewTransport(cfg TransportConfig) (*Transport, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("APIKey is required")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	sign := cfg.Signer
	if sign == nil {
		sign = Base64Signer
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: DefaultTimeout,
		}
	}

	log := zerolog.Nop()
	if cfg.Logger != nil {
		log = *cfg.Logger
	}

	return &Transport{
		apiURL:     strings.TrimSuffix(baseURL, "/") + "/" + APIVersion,
		apiKey:     cfg.APIKey,
		sign:       sign,
		httpClient: httpClient,
		log:        log,
		now:        time.Now,
	}, nil
}

// Response is a successful API response. The body is returned verbatim; no
// schema validation is performed.
type Response struct {
	StatusCode int
	Body       []byte
	Header     http.Header
}

// JSON unmarshals the response body into v.
func (r *Response) JSON(v any) error {
	return json.Unmarshal(r.Body, v)
}

// Get extracts a value from the response body by gjson path.
func (r *Response) Get(path string) gjson.Result {
	return gjson.GetBytes(r.Body, path)
}

// Do issues a signed request and maps the outcome. body, when non-nil, is
// JSON-encoded; query parameters are appended to the URL. Any failure is an
// *Error.
func (t *Transport) Do(ctx context.Context, method, path string, body any, query url.Values) (*Response, error) {
	reqURL := t.apiURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	timestamp := t.now().Unix()
	signature, err := t.sign(fmt.Sprintf("%s%s%d", method, path, timestamp))
	if err != nil {
		return nil, fmt.Errorf("sign request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+t.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Wallet-Signature", signature)
	req.Header.Set("X-Timestamp", strconv.FormatInt(timestamp, 10))
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := t.httpClient.Do(req)
	if err != nil {
		t.log.Debug().Err(err).Str("method", method).Str("path", path).Msg("request failed")
		return nil, networkError("request failed: "+err.Error(), 0, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, networkError("read response: "+err.Error(), resp.StatusCode, err)
	}

	// 429 is special-cased before generic mapping: the failure is
	// rate-limited regardless of the body shape.
	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, rateLimitError(resp)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return &Response{
			StatusCode: resp.StatusCode,
			Body:       respBody,
			Header:     resp.Header,
		}, nil
	}

	return nil, mapErrorBody(resp.StatusCode, respBody)
}

// WebSocketURL derives the streaming endpoint for a versioned path from the
// configured base URL, rewriting the scheme to ws/wss.
func (t *Transport) WebSocketURL(path string) string {
	wsURL := t.apiURL + path
	switch {
	case strings.HasPrefix(wsURL, "https"):
		wsURL = "wss" + wsURL[len("https"):]
	case strings.HasPrefix(wsURL, "http"):
		wsURL = "ws" + wsURL[len("http"):]
	}
	return wsURL
}

// Logger returns the transport's logger for use by façade components.
func (t *Transport) Logger() zerolog.Logger {
	return t.log
}

func rateLimitError(resp *http.Response) *Error {
	retryAfter := defaultRetryAfter
	if v := resp.Header.Get("Retry-After"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
			retryAfter = time.Duration(secs) * time.Second
		}
	}
	return &Error{
		Kind:       KindRateLimited,
		Code:       "RATE_LIMIT_EXCEEDED",
		Message:    "Rate limit exceeded",
		Details:    map[string]any{"retry_after": int(retryAfter / time.Second)},
		StatusCode: resp.StatusCode,
		RetryAfter: retryAfter,
	}
}

// mapErrorBody translates a non-2xx body shaped {error:{code,message,details}}
// into a typed *Error. Bodies that are not valid JSON degrade to KindNetwork,
// keeping the status code.
func mapErrorBody(status int, body []byte) *Error {
	if !gjson.ValidBytes(body) {
		return networkError(fmt.Sprintf("server returned status %d", status), status, nil)
	}

	errObj := gjson.GetBytes(body, "error")

	code := errObj.Get("code").String()
	if code == "" {
		code = "UNKNOWN_ERROR"
	}
	message := errObj.Get("message").String()
	if message == "" {
		message = fmt.Sprintf("request failed with status %d", status)
	}

	details := map[string]any{}
	if d := errObj.Get("details"); d.IsObject() {
		// gjson validated the body; details is a well-formed object.
		_ = json.Unmarshal([]byte(d.Raw), &details)
	}

	apiErr := &Error{
		Kind:       KindForCode(code),
		Code:       code,
		Message:    message,
		Details:    details,
		StatusCode: status,
	}

	if apiErr.Kind == KindRateLimited {
		apiErr.RetryAfter = defaultRetryAfter
		if v, ok := details["retry_after"]; ok {
			if secs, ok := v.(float64); ok && secs >= 0 {
				apiErr.RetryAfter = time.Duration(secs) * time.Second
			}
		}
	}

	return apiErr
}
