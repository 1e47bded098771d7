package whttp

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/manzanit0/geoapi/pkg/geoapi"
)

// SecretParams are query parameters never written to logs verbatim.
var SecretParams = []string{"apikey", "access_key", "appid"}

type LoggingRoundTripper struct {
	Proxied http.RoundTripper

	// LogBodies adds the response body to the log line.
	LogBodies bool
}

func (lrt LoggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	target := RedactURL(req.URL)
	t0 := time.Now()

	res, err := lrt.Proxied.RoundTrip(req)
	if err != nil {
		slog.ErrorContext(ctx, "outbound request failed",
			"method", req.Method,
			"url", target,
			"duration_ms", time.Since(t0).Milliseconds(),
			"error", err.Error())
		return res, err
	}

	fields := []any{
		"method", req.Method,
		"call", geoapi.MethodFromContext(ctx),
		"url", target,
		"status", res.StatusCode,
		"duration_ms", time.Since(t0).Milliseconds(),
	}

	if lrt.LogBodies {
		body, err := io.ReadAll(res.Body)
		res.Body.Close()
		if err != nil {
			slog.ErrorContext(ctx, "unable to read response body",
				append(fields, "error", err.Error())...)
			return nil, err
		}

		res.Body = io.NopCloser(bytes.NewReader(body))
		fields = append(fields, "body", string(body))
	}

	slog.InfoContext(ctx, "outbound request", fields...)
	return res, nil
}

// RedactURL renders u with every secret query parameter masked.
func RedactURL(u *url.URL) string {
	if u == nil {
		return ""
	}

	q := u.Query()
	changed := false
	for _, p := range SecretParams {
		if q.Has(p) {
			q.Set(p, "*****")
			changed = true
		}
	}

	if !changed {
		return u.String()
	}

	redacted := *u
	redacted.RawQuery = q.Encode()
	return redacted.String()
}

// NewLoggingClient returns a client that logs and measures every request.
// Keep-alives are disabled so each call owns its connection.
func NewLoggingClient(timeout time.Duration, logBodies bool) *http.Client {
	transport := &http.Transport{
		Proxy:             http.ProxyFromEnvironment,
		DisableKeepAlives: true,
	}

	return &http.Client{
		Transport: LoggingRoundTripper{
			Proxied:   MetricsRoundTripper{Proxied: transport},
			LogBodies: logBodies,
		},
		Timeout: timeout,
	}
}
