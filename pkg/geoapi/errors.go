package geoapi

import "fmt"

type UnknownMethodError struct {
	Namespace string
	Method    string
}

func (e *UnknownMethodError) Error() string {
	return fmt.Sprintf("unknown method %s.%s", e.Namespace, e.Method)
}

// MissingParameterError is returned before any request is made when a
// required parameter was not supplied.
type MissingParameterError struct {
	Method string
	Param  string
}

func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("%s: missing required parameter %q", e.Method, e.Param)
}

type UnknownParameterError struct {
	Method string
	Param  string
}

func (e *UnknownParameterError) Error() string {
	return fmt.Sprintf("%s: unexpected parameter %q", e.Method, e.Param)
}

type InvalidParameterError struct {
	Method string
	Param  string
	Reason string
}

func (e *InvalidParameterError) Error() string {
	return fmt.Sprintf("%s: invalid parameter %q: %s", e.Method, e.Param, e.Reason)
}

// TransportError covers every failure to obtain a 2xx response body: dial
// and read errors as well as non-2xx statuses. URL never carries the API key.
type TransportError struct {
	Method     string
	URL        string
	StatusCode int
	Body       string
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: unexpected response from %s: (%d) %s", e.Method, e.URL, e.StatusCode, e.Body)
	}

	return fmt.Sprintf("%s: request to %s failed: %s", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

type ResponseParseError struct {
	Method string
	Body   string
	Err    error
}

func (e *ResponseParseError) Error() string {
	return fmt.Sprintf("%s: response is not valid json: %s", e.Method, e.Err)
}

func (e *ResponseParseError) Unwrap() error {
	return e.Err
}

func excerpt(b []byte) string {
	const max = 512
	if len(b) > max {
		return string(b[:max]) + "..."
	}

	return string(b)
}
