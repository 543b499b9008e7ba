package pocket

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultBaseURL is the production Pocket service.
const DefaultBaseURL = "https://getpocket.com"

// Endpoint path suffixes, appended to the base URL.
const (
	endpointRetrieve = "/v3/get"
	endpointAdd      = "/v3/add"
	endpointSend     = "/v3/send"
)

const defaultTimeout = 30 * time.Second

// Credentials identifies the application and the user on every call. The
// client copies it at construction and never modifies it.
type Credentials struct {
	ConsumerKey string
	AccessToken string
	BaseURL     string
}

// Option configures a Client.
type Option func(*clientOptions)

// clientOptions holds configuration options for the Client.
type clientOptions struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	logger     zerolog.Logger
}

func defaultOptions() clientOptions {
	return clientOptions{
		baseURL: DefaultBaseURL,
		timeout: defaultTimeout,
		logger:  zerolog.Nop(),
	}
}

func newOptions(opts []Option) clientOptions {
	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	return options
}

// client returns the HTTP client to use, building one from the configured
// timeout when the caller did not supply their own.
func (o clientOptions) client() *http.Client {
	if o.httpClient != nil {
		return o.httpClient
	}
	return &http.Client{Timeout: o.timeout}
}

func (o clientOptions) base() string {
	return strings.TrimSuffix(o.baseURL, "/")
}

// WithBaseURL points the client at a different service root, for proxies
// and tests.
func WithBaseURL(baseURL string) Option {
	return func(o *clientOptions) {
		if baseURL != "" {
			o.baseURL = baseURL
		}
	}
}

// WithHTTPClient supplies a custom HTTP client. It takes precedence over
// WithTimeout.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(o *clientOptions) {
		if httpClient != nil {
			o.httpClient = httpClient
		}
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) {
		if timeout > 0 {
			o.timeout = timeout
		}
	}
}

// WithLogger attaches a logger for request-level debug output. Without it
// the client stays silent.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *clientOptions) {
		o.logger = logger
	}
}

// Client talks to the Pocket v3 API. All three operations POST a JSON body
// carrying the credentials and return decoded JSON. A Client is safe for
// concurrent use.
type Client struct {
	creds      Credentials
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a client from a raw consumer-key/access-token pair.
func NewClient(consumerKey, accessToken string, opts ...Option) (*Client, error) {
	return NewClientWithCredentials(Credentials{
		ConsumerKey: consumerKey,
		AccessToken: accessToken,
	}, opts...)
}

// NewClientWithCredentials creates a client from prepared credentials. A
// BaseURL inside the credentials takes precedence over WithBaseURL; when
// both are empty the production service is used.
func NewClientWithCredentials(creds Credentials, opts ...Option) (*Client, error) {
	if creds.ConsumerKey == "" {
		return nil, ErrMissingConsumerKey
	}
	if creds.AccessToken == "" {
		return nil, ErrMissingAccessToken
	}

	options := newOptions(opts)
	if creds.BaseURL == "" {
		creds.BaseURL = options.baseURL
	}
	creds.BaseURL = strings.TrimSuffix(creds.BaseURL, "/")

	return &Client{
		creds:      creds,
		httpClient: options.client(),
		logger:     options.logger,
	}, nil
}

// Credentials returns a copy of the credentials the client was built with.
func (c *Client) Credentials() Credentials {
	return c.creds
}

// Retrieve fetches saved items matching the given options.
func (c *Client) Retrieve(ctx context.Context, opts RetrieveOptions) (*RetrieveResult, error) {
	var out RetrieveResult
	if err := c.post(ctx, endpointRetrieve, opts.params(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MustRetrieve is Retrieve for callers that treat a failed fetch as fatal:
// it panics instead of returning an error.
func (c *Client) MustRetrieve(ctx context.Context, opts RetrieveOptions) *RetrieveResult {
	result, err := c.Retrieve(ctx, opts)
	if err != nil {
		panic(err)
	}
	return result
}

// Add saves a single new item.
func (c *Client) Add(ctx context.Context, opts AddOptions) (*AddResult, error) {
	var out AddResult
	if err := c.post(ctx, endpointAdd, opts.params(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Send dispatches a batch of actions in one call. Every action is stamped
// with the same current Unix time before encoding; the batch value itself
// is not modified. Per-action outcomes are reported in the result, not as
// an error: an error return means the call as a whole failed.
func (c *Client) Send(ctx context.Context, batch Batch) (*SendResult, error) {
	actions := batch.stamped(time.Now())
	var out SendResult
	if err := c.post(ctx, endpointSend, map[string]any{"actions": actions}, &out); err != nil {
		return nil, err
	}
	c.logger.Debug().Int("actions", len(actions)).Int("status", out.Status).Msg("Dispatched action batch")
	return &out, nil
}

// SendActions wraps loose actions into a batch and dispatches them.
func (c *Client) SendActions(ctx context.Context, actions ...Action) (*SendResult, error) {
	return c.Send(ctx, NewBatch().Append(actions...))
}

// post merges the credentials into the request parameters and performs the
// call against the given endpoint path.
func (c *Client) post(ctx context.Context, path string, params map[string]any, out any) error {
	payload := make(map[string]any, len(params)+2)
	for k, v := range params {
		payload[k] = v
	}
	payload["consumer_key"] = c.creds.ConsumerKey
	payload["access_token"] = c.creds.AccessToken
	return postJSON(ctx, c.httpClient, c.logger, c.creds.BaseURL+path, payload, out)
}

// postJSON performs one POST round-trip: encode, send, classify. It is
// shared by the client operations and the OAuth handshake functions.
func postJSON(ctx context.Context, httpClient *http.Client, logger zerolog.Logger, url string, payload any, out any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=UTF-8")
	req.Header.Set("X-Accept", "application/json")

	logger.Debug().Str("url", url).Msg("Sending Pocket API request")

	resp, err := httpClient.Do(req)
	if err != nil {
		return &RequestError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &RequestError{URL: url, Err: err}
	}

	return classify(resp.StatusCode, resp.Header, body, out)
}
