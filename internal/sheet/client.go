// internal/sheet/client.go
//
// Source fetcher for the published Google Sheet.
//
// The sheet is treated as an opaque URL returning CSV text. One Fetch is one
// GET; there are no retries. Anything other than a 2xx response is a failure,
// so a Google error page is never parsed as vocabulary.

package sheet

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// DefaultURL is the published CSV export of the vocabulary sheet.
const DefaultURL = "https://docs.google.com/spreadsheets/d/e/2PACX-1vTy8CweGTUMVlovuY8BwSwcjKKCHxKC7VGIGNnQ_Yuj6kxSg3R5h4kIifd_ZFRzdlK5aVzS3q4608v5/pub?gid=0&single=true&output=csv"

const userAgent = "gumballz-sheet-fetcher/1.0"

//go:generate mockgen -source=client.go -destination=../mocks/sheet/fetcher.go -package=mock_sheet Fetcher

// Fetcher returns the raw CSV text of the source.
type Fetcher interface {
	Fetch(ctx context.Context) (string, error)
}

// FetchError is a failed upstream request.
type FetchError struct {
	URL        string
	StatusCode int // 0 when no response was received
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("sheet: GET %s: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("sheet: GET %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Client fetches the sheet over HTTP.
type Client struct {
	url  string
	http *resty.Client
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout bounds each request. Zero means no client-side limit.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.SetTimeout(d) }
}

// NewClient builds a fetcher for url.
func NewClient(url string, opts ...Option) *Client {
	c := &Client{url: url, http: resty.New()}
	for _, o := range opts {
		o(c)
	}
	c.http.SetHeader("User-Agent", userAgent)
	return c
}

// Fetch performs the GET and returns the body as text.
func (c *Client) Fetch(ctx context.Context) (string, error) {
	res, err := c.http.R().
		SetContext(ctx).
		SetHeader("Accept", "text/csv").
		Get(c.url)
	if err != nil {
		return "", &FetchError{URL: c.url, Err: fmt.Errorf("client.R.Get > %w", err)}
	}
	if !res.IsSuccess() {
		return "", &FetchError{
			URL:        c.url,
			StatusCode: res.StatusCode(),
			Err:        fmt.Errorf("unexpected status %s", res.Status()),
		}
	}
	return res.String(), nil
}
