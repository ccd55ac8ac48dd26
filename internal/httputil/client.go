// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared by the remote clients.
package httputil

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pdiddy/social-bots/pkg/types"
)

const (
	// DefaultTimeout applies when HTTPConfig.Timeout is zero.
	DefaultTimeout = 60 * time.Second

	// DefaultUserAgent applies when HTTPConfig.UserAgent is empty.
	DefaultUserAgent = "social-bots/0.1"

	errorBodyLimit = 4096
)

// NewClient returns an HTTP client with the configured timeout that stamps
// every request with the configured User-Agent.
func NewClient(cfg types.HTTPConfig) *http.Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: &userAgentTransport{base: http.DefaultTransport, userAgent: UserAgent(cfg)},
	}
}

// UserAgent returns the configured User-Agent or DefaultUserAgent.
func UserAgent(cfg types.HTTPConfig) string {
	if cfg.UserAgent == "" {
		return DefaultUserAgent
	}
	return cfg.UserAgent
}

type userAgentTransport struct {
	base      http.RoundTripper
	userAgent string
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") != "" {
		return t.base.RoundTrip(req)
	}
	r := req.Clone(req.Context())
	r.Header.Set("User-Agent", t.userAgent)
	return t.base.RoundTrip(r)
}

// StatusError builds an error for a non-2xx response, including the start of
// the body when there is one. The caller still owns resp.Body.
func StatusError(service string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyLimit))
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		return fmt.Errorf("%s returned HTTP %d", service, resp.StatusCode)
	}
	return fmt.Errorf("%s returned HTTP %d: %s", service, resp.StatusCode, msg)
}
