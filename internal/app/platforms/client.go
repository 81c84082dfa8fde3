// Package platforms holds the fetch adapters that pull daily activity
// counts out of each external coding platform. Every adapter implements
// contrib.Fetcher and keeps its endpoint configurable so tests can point it
// at a local server.
package platforms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/mionacs/ayycode/internal/app/system/timeouts"
)

// UserAgent identifies outbound requests. Several platforms reject the Go
// default agent outright.
const UserAgent = "AyyCodeApp/1.0 (+https://github.com/mioNacs/aaycode)"

// maxBodyBytes caps how much of a response we will read. Profile pages run
// to a few hundred KB; anything past this is not a page we can parse.
const maxBodyBytes = 4 << 20

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: timeouts.Long()}
}

// doJSON issues req on client and decodes the body into out. Non-2xx
// statuses become errors carrying the status code.
func doJSON(ctx context.Context, client *http.Client, req *http.Request, out any) error {
	req = req.WithContext(ctx)
	req.Header.Set("User-Agent", UserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s: unexpected status %d: %s", req.URL.Host, resp.StatusCode, body)
	}

	return json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(out)
}

// fetchPage GETs a URL and returns the body as a string, for the adapters
// that scrape HTML rather than call an API.
func fetchPage(ctx context.Context, client *http.Client, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("User-Agent", UserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", fmt.Errorf("%s: profile not found", req.URL.Host)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%s: unexpected status %d", req.URL.Host, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return "", err
	}
	return string(body), nil
}
