// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared across stages.
package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/time/rate"
)

// Pacer spaces out requests to one API with a token bucket. A nil Pacer
// sends requests immediately with http.DefaultClient.
type Pacer struct {
	client  *http.Client
	limiter *rate.Limiter
}

// NewPacer returns a Pacer allowing perSecond requests per second with a
// burst of one. perSecond <= 0 disables pacing.
func NewPacer(client *http.Client, perSecond float64) *Pacer {
	if client == nil {
		client = http.DefaultClient
	}
	p := &Pacer{client: client}
	if perSecond > 0 {
		p.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
	}
	return p
}

// Do waits for a token and sends req exactly once. There is no retry: any
// transport error or non-200 status is returned as an error, and the caller
// decides what to keep.
func (p *Pacer) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	client := http.DefaultClient
	if p != nil {
		client = p.client
		if p.limiter != nil {
			if err := p.limiter.Wait(ctx); err != nil {
				return nil, fmt.Errorf("waiting for rate limiter: %w", err)
			}
		}
	}

	resp, err := client.Do(req.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused.
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		return nil, &StatusError{StatusCode: resp.StatusCode, URL: req.URL.Redacted()}
	}
	return resp, nil
}

// StatusError reports a non-200 response.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d from %s", e.StatusCode, e.URL)
}
