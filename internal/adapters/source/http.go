package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/okian/riichi/internal/domain/model"
)

const maxExportBytes = 16 << 20

// HTTPCSV fetches a CSV export, e.g. a published spreadsheet URL ending in
// format=csv.
type HTTPCSV struct {
	url      string
	client   *http.Client
	maxBytes int64
}

// NewHTTPCSV returns a loader for url. A zero timeout leaves the client unbounded.
func NewHTTPCSV(url string, timeout time.Duration) *HTTPCSV {
	return &HTTPCSV{url: url, client: &http.Client{Timeout: timeout}, maxBytes: maxExportBytes}
}

// Load downloads and maps the export.
func (h *HTTPCSV) Load(ctx context.Context) ([]model.GameRow, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	req.Header.Set("Accept", "text/csv")

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %s returned %d", ErrFetch, h.url, resp.StatusCode)
	}

	// One byte past the limit tells a truncated export from an exact fit.
	body, err := io.ReadAll(io.LimitReader(resp.Body, h.maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrFetch, h.url, err)
	}
	if int64(len(body)) > h.maxBytes {
		return nil, fmt.Errorf("%w: export exceeds %d bytes", ErrFetch, h.maxBytes)
	}
	return ParseCSV(bytes.NewReader(body))
}
