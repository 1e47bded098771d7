// Package geoapi is a client for the GeoAPI REST search service.
//
// Every remote method is declared in an immutable Registry. A call is first
// resolved against that table (validating parameters and computing the
// target URL) and then dispatched as a GET request whose query string
// carries the arguments and the API key. Responses are decoded into the
// generic encoding/json value tree, with numbers kept as json.Number so
// that large integer ids survive intact.
package geoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strings"
)

type ctxKey struct{}

// MethodFromContext returns the dotted method id, e.g. "search.simple", of
// the call an outbound request belongs to. Transports use it to label
// requests without looking at the URL, which may embed ids.
func MethodFromContext(ctx context.Context) string {
	method, _ := ctx.Value(ctxKey{}).(string)
	return method
}

// ErrorCheck inspects a decoded response before it is handed to the caller.
// The service does not document an error payload, so the default accepts
// everything.
type ErrorCheck func(method string, resp any) error

func NoErrorCheck(string, any) error {
	return nil
}

type Client struct {
	h          *http.Client
	apiKey     string
	base       string
	registry   *Registry
	checkError ErrorCheck

	Search *SearchProxy
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.h = h }
}

// WithBaseURL points the builtin method table at another host. It is
// ignored when WithRegistry is also given.
func WithBaseURL(base string) Option {
	return func(c *Client) { c.base = base }
}

func WithRegistry(r *Registry) Option {
	return func(c *Client) { c.registry = r }
}

func WithErrorCheck(fn ErrorCheck) Option {
	return func(c *Client) { c.checkError = fn }
}

func New(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		checkError: NoErrorCheck,
	}

	for _, o := range opts {
		o(c)
	}

	if c.registry == nil {
		c.registry = DefaultRegistry(c.base)
	}

	if c.h == nil {
		// A fresh connection per call: no pooling, no client side timeout.
		c.h = &http.Client{Transport: &http.Transport{
			Proxy:             http.ProxyFromEnvironment,
			DisableKeepAlives: true,
		}}
	}

	if c.checkError == nil {
		c.checkError = NoErrorCheck
	}

	c.Search = &SearchProxy{Proxy{client: c, namespace: NamespaceSearch}}
	return c
}

func (c *Client) Registry() *Registry {
	return c.registry
}

// Call resolves namespace.method against the registry and performs it.
func (c *Client) Call(namespace, method string, args Args) (any, error) {
	target, resolved, err := c.registry.Resolve(namespace, method, args)
	if err != nil {
		return nil, err
	}

	return c.Invoke(namespace+"."+method, target, resolved)
}

// Invoke sends one GET request to target with args and the API key in the
// query string and decodes the JSON body.
func (c *Client) Invoke(method, target string, args Args) (any, error) {
	augmented := make(Args, len(args)+1)
	for k, v := range args {
		augmented[k] = v
	}
	augmented["apikey"] = c.apiKey

	query, err := Encode(augmented)
	if err != nil {
		return nil, err
	}

	sep := "?"
	if strings.Contains(target, "?") {
		sep = "&"
	}

	ctx := context.WithValue(context.Background(), ctxKey{}, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target+sep+query, nil)
	if err != nil {
		return nil, transportError(method, target, err)
	}

	res, err := c.h.Do(req)
	if err != nil {
		return nil, transportError(method, target, err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, &TransportError{Method: method, URL: target, Err: err}
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return nil, &TransportError{Method: method, URL: target, StatusCode: res.StatusCode, Body: excerpt(body)}
	}

	decoded, err := decode(body)
	if err != nil {
		return nil, &ResponseParseError{Method: method, Body: excerpt(body), Err: err}
	}

	if err := c.checkError(method, decoded); err != nil {
		return nil, err
	}

	return decoded, nil
}

// transportError strips the query string, and with it the API key, from any
// *url.Error before wrapping it.
func transportError(method, target string, err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		urlErr.URL = target
	}

	return &TransportError{Method: method, URL: target, Err: err}
}

func decode(body []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}

	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("invalid character after top-level value")
	}

	return v, nil
}
