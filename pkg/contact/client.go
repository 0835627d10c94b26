package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
)

const (
	// DefaultRelayURL is the placeholder relay endpoint written by `portfolio init`.
	DefaultRelayURL = "https://formspree.io/f/your-form-id"
	// RelayTimeout bounds a single submission.
	RelayTimeout = 30 * time.Second
)

// Relay forwards a submitted form.
type Relay interface {
	Send(ctx context.Context, form Form) (err error)
}

// Client posts forms to a third-party relay endpoint as JSON.
type Client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient creates a relay client for endpoint.
func NewClient(endpoint string) (client *Client) {
	client = &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: RelayTimeout,
		},
	}
	return client
}

// Endpoint returns the relay URL.
func (c *Client) Endpoint() (endpoint string) {
	endpoint = c.endpoint
	return endpoint
}

// Send posts the form. Any 2xx response is success; the body is not parsed.
func (c *Client) Send(ctx context.Context, form Form) (err error) {
	if c.endpoint == "" {
		err = errors.New("no relay endpoint configured")
		return err
	}

	var reqBody []byte
	reqBody, err = json.Marshal(form)
	if err != nil {
		err = errors.Wrap(err, "failed to marshal contact form")
		return err
	}

	var httpReq *http.Request
	httpReq, err = http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(reqBody))
	if err != nil {
		err = errors.Wrap(err, "failed to create HTTP request")
		return err
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Content-Type", "application/json")

	var resp *http.Response
	resp, err = c.httpClient.Do(httpReq)
	if err != nil {
		err = errors.Wrap(err, "HTTP request failed")
		return err
	}
	defer resp.Body.Close()

	// drain so the connection can be reused
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err = errors.Errorf("relay request failed with status %d", resp.StatusCode)
		return err
	}

	return err
}
