package clientcli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// progressReader reports cumulative bytes read to a callback. It is the
// transfer-layer progress source the engine folds into task percentages.
type progressReader struct {
	r      io.Reader
	loaded int64
	report func(loaded int64)
}

func (p *progressReader) Read(buf []byte) (int, error) {
	n, err := p.r.Read(buf)
	if n > 0 {
		p.loaded += int64(n)
		if p.report != nil {
			p.report(p.loaded)
		}
	}
	return n, err
}

// PutBytes streams size bytes from body to a previously issued write URL and
// returns the integrity tag from the response. Cancelling ctx surfaces as
// ErrTransferAborted so a deliberate stop is never confused with a network
// failure.
func (c *Client) PutBytes(ctx context.Context, targetURL, contentType string, size int64, body io.Reader, onProgress func(loaded int64)) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, targetURL, &progressReader{r: body, report: onProgress})
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.ContentLength = size
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	c.authorize(req)

	resp, err := c.transfer.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", ErrTransferAborted
		}
		return "", fmt.Errorf("do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(resp.Body)
		return "", parseServerError(resp.StatusCode, data)
	}

	return strings.Trim(resp.Header.Get("ETag"), `"`), nil
}

// speedTracker smooths instantaneous transfer rates by only recomputing
// over windows of at least half a second.
type speedTracker struct {
	lastAt    time.Time
	lastBytes int64
	bytesPerS float64
}

const speedWindow = 500 * time.Millisecond

func newSpeedTracker() *speedTracker {
	return &speedTracker{lastAt: time.Now()}
}

// update feeds the cumulative byte count and returns the current estimate.
func (s *speedTracker) update(loaded int64) float64 {
	elapsed := time.Since(s.lastAt)
	if elapsed < speedWindow {
		return s.bytesPerS
	}
	s.bytesPerS = float64(loaded-s.lastBytes) / elapsed.Seconds()
	s.lastAt = time.Now()
	s.lastBytes = loaded
	return s.bytesPerS
}

// IsAborted reports whether err is a deliberate transfer cancellation.
func IsAborted(err error) bool {
	return errors.Is(err, ErrTransferAborted) || errors.Is(err, context.Canceled)
}
