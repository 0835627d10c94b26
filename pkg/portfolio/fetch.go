package portfolio

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/pkg/errors"
)

const (
	// DefaultDataPath is where the site publishes the portfolio document.
	DefaultDataPath = "/data/portfolio_structured.json"
	// FetchTimeout bounds a single HTTP retrieval.
	FetchTimeout = 30 * time.Second
)

// Fetch retrieves and decodes the portfolio document from a file path or URL.
// A URL with no path is resolved against DefaultDataPath.
func Fetch(ctx context.Context, source string) (doc Document, err error) {
	var data []byte

	parsedURL, urlErr := url.Parse(source)
	if urlErr == nil && (parsedURL.Scheme == "http" || parsedURL.Scheme == "https") {
		if parsedURL.Path == "" || parsedURL.Path == "/" {
			parsedURL.Path = DefaultDataPath
		}

		data, err = fetchFromURL(ctx, parsedURL.String())
		if err != nil {
			err = errors.Wrapf(err, "failed to fetch portfolio from URL: %s", parsedURL.String())
			return doc, err
		}
	} else {
		data, err = fetchFromFile(source)
		if err != nil {
			err = errors.Wrapf(err, "failed to fetch portfolio from file: %s", source)
			return doc, err
		}
	}

	doc, err = Parse(data)
	if err != nil {
		err = errors.Wrapf(err, "failed to parse portfolio from: %s", source)
		return doc, err
	}

	return doc, err
}

// Parse decodes a portfolio document. It checks syntax only; a document missing
// sections still parses, records which ones it lacks (see MissingSections), and
// the resume generator decides what it cannot render.
func Parse(data []byte) (doc Document, err error) {
	err = json.Unmarshal(data, &doc)
	if err != nil {
		err = errors.Wrap(err, "invalid portfolio JSON")
		return doc, err
	}
	return doc, err
}

// fetchFromFile reads the document from disk.
func fetchFromFile(path string) (data []byte, err error) {
	if path == "" {
		err = errors.New("no portfolio source given")
		return data, err
	}

	data, err = os.ReadFile(path)
	if err != nil {
		err = errors.Wrapf(err, "failed to read file: %s", path)
		return data, err
	}

	if len(data) == 0 {
		err = errors.New("file is empty")
		return data, err
	}

	return data, err
}

// fetchFromURL retrieves the document over HTTP.
func fetchFromURL(ctx context.Context, urlStr string) (data []byte, err error) {
	var req *http.Request
	req, err = http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		err = errors.Wrap(err, "failed to create HTTP request")
		return data, err
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "portfolio/1.0")

	client := &http.Client{
		Timeout: FetchTimeout,
	}

	var resp *http.Response
	resp, err = client.Do(req)
	if err != nil {
		err = errors.Wrap(err, "HTTP request failed")
		return data, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err = errors.Errorf("HTTP request failed with status: %d", resp.StatusCode)
		return data, err
	}

	data, err = io.ReadAll(resp.Body)
	if err != nil {
		err = errors.Wrap(err, "failed to read response body")
		return data, err
	}

	if len(data) == 0 {
		err = errors.New("fetched content is empty")
		return data, err
	}

	return data, err
}
