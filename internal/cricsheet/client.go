// Package cricsheet reads ball-by-ball match records in the Cricsheet JSON
// format, from a downloaded archive or from local files.
package cricsheet

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultArchiveURL is the Cricsheet bundle of every IPL match.
const DefaultArchiveURL = "https://cricsheet.org/downloads/ipl_json.zip"

// ErrTransport marks a failure to fetch the source archive. It is fatal to a run.
var ErrTransport = errors.New("transport failure")

// Client downloads source archives over HTTP.
type Client struct {
	http *http.Client
}

// NewClient returns a client whose whole request, body included, must finish
// within timeout.
func NewClient(timeout time.Duration) *Client {
	return &Client{
		http: &http.Client{Timeout: timeout},
	}
}

// Download streams the resource at url into w and returns the byte count.
// Every failure is wrapped in ErrTransport.
func (c *Client) Download(ctx context.Context, url string, w io.Writer) (int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: build request: %v", ErrTransport, err)
	}
	req.Header.Set("User-Agent", "cricmetrics/1.0")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: GET %s: %v", ErrTransport, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("%w: GET %s: HTTP %d", ErrTransport, url, resp.StatusCode)
	}
	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("%w: read body: %v", ErrTransport, err)
	}
	return n, nil
}
