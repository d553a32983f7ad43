// Package httpclient provides basic http functions
package httpclient

import (
	"bytes"
	"fmt"
	"net/http"
	"time"
)

// fetchTimeout bounds a single feed request so a stalled server can't hold a
// collector cycle past its interval.
const fetchTimeout = 30 * time.Second

var client = &http.Client{Timeout: fetchTimeout}

// GetBytes retrieves the body at url using a simple GET request.
// Non-2xx responses are returned as errors.
func GetBytes(url string) ([]byte, error) {
	resp, err := client.Get(url)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected response status %s from %s", resp.Status, url)
	}

	buf := new(bytes.Buffer)
	_, err = buf.ReadFrom(resp.Body)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
