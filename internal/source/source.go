// Package source contains one adapter per external feed. Each adapter
// fetches its feed, normalizes the source's idiosyncratic field shapes, and
// yields fully classified candidate incidents for the dedup writer.
// Adapters are independent: a failure in one never blocks the others.
package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/civicpulse/incident-etl/internal/domain"
)

// Source fetches one external feed and yields candidate incidents.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]domain.Incident, error)
}

// FetchError reports that a source's payload could not be retrieved:
// network failure or a non-2xx response. The caller logs it and treats the
// source's batch as empty; the next scheduled run re-attempts naturally.
type FetchError struct {
	Source string
	Err    error
}

func (e *FetchError) Error() string { return fmt.Sprintf("fetch %s: %v", e.Source, e.Err) }
func (e *FetchError) Unwrap() error { return e.Err }

// ParseError reports a malformed payload from an otherwise reachable
// source. Treated the same as a FetchError by callers.
type ParseError struct {
	Source string
	Err    error
}

func (e *ParseError) Error() string { return fmt.Sprintf("parse %s: %v", e.Source, e.Err) }
func (e *ParseError) Unwrap() error { return e.Err }

// getJSON fetches url and decodes the body into v, wrapping failures in the
// source error taxonomy.
func getJSON(ctx context.Context, client *http.Client, sourceName, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &FetchError{Source: sourceName, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return &FetchError{Source: sourceName, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &FetchError{Source: sourceName, Err: fmt.Errorf("status %d: %s", resp.StatusCode, body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return &ParseError{Source: sourceName, Err: err}
	}
	return nil
}

// pickString returns the first present, non-empty string among the given
// keys. Upstream APIs have shipped both PascalCase and camelCase field
// names in the same logical payload, so each adapter declares every
// spelling explicitly instead of guessing.
func pickString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			if s, ok := v.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

// pickFloat returns the first present numeric value among the given keys.
// JSON numbers decode as float64; numeric strings are also accepted because
// the traffic API has shipped coordinates both ways.
func pickFloat(m map[string]any, keys ...string) (float64, bool) {
	for _, k := range keys {
		v, ok := m[k]
		if !ok {
			continue
		}
		switch n := v.(type) {
		case float64:
			return n, true
		case string:
			if f, err := strconv.ParseFloat(n, 64); err == nil {
				return f, true
			}
		}
	}
	return 0, false
}
