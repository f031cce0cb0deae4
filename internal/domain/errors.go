package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedPage marks a feed page whose payload is missing the expected
// post list. The pipeline treats it as natural end-of-pagination: the batch
// accumulated from earlier pages is still persisted.
var ErrMalformedPage = errors.New("feed page missing posts payload")

// ConfigError reports missing credentials or identifiers. It is raised
// before any network call is made.
type ConfigError struct {
	Missing []string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("missing required configuration: %s", strings.Join(e.Missing, ", "))
}

// UpstreamError reports a failed feed API call: a non-2xx HTTP status or an
// explicit non-success status in the payload. It aborts the pipeline run and
// leaves the poll watermark untouched.
type UpstreamError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *UpstreamError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("feed API returned status %q: %s", e.Status, e.Body)
	}
	return fmt.Sprintf("feed API error: HTTP %d: %s", e.StatusCode, e.Body)
}
