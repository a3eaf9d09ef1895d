package http

import (
	"bytes"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
)

// Request describes the bullet a gun fires: method, target and payload.
type Request struct {
	Method      string
	Path        string
	QueryParams url.Values
	Headers     map[string]string
	Form        url.Values
	Body        []byte
}

// NewRequest creates a new HTTP request
func NewRequest(method, path string) *Request {
	return &Request{
		Method:      method,
		Path:        path,
		QueryParams: make(url.Values),
		Headers:     make(map[string]string),
	}
}

// WithHeader adds a header to the request
func (r *Request) WithHeader(key, value string) *Request {
	r.Headers[key] = value
	return r
}

// WithHeaders adds every entry of headers to the request.
func (r *Request) WithHeaders(headers map[string]string) *Request {
	for key, value := range headers {
		r.Headers[key] = value
	}
	return r
}

// WithQueryParam adds a query parameter to the request
func (r *Request) WithQueryParam(key, value string) *Request {
	r.QueryParams.Add(key, value)
	return r
}

// WithForm sets form fields. A request with form fields is sent as
// application/x-www-form-urlencoded and any raw body is ignored.
func (r *Request) WithForm(fields map[string]string) *Request {
	if r.Form == nil {
		r.Form = make(url.Values)
	}
	for key, value := range fields {
		r.Form.Set(key, value)
	}
	return r
}

// WithBody sets a raw request body
func (r *Request) WithBody(body []byte) *Request {
	r.Body = body
	return r
}

// Build constructs an http.Request from the Request. The payload is built
// fresh on every call so one Request can be fired repeatedly.
func (r *Request) Build(baseURL string) (*http.Request, error) {
	reqURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}

	if r.Path != "" {
		if reqURL.Path == "" {
			reqURL.Path = r.Path
		} else {
			reqURL.Path = strings.TrimRight(reqURL.Path, "/") + "/" + strings.TrimLeft(r.Path, "/")
		}
	}

	query := reqURL.Query()
	for key, values := range r.QueryParams {
		for _, value := range values {
			query.Add(key, value)
		}
	}
	reqURL.RawQuery = query.Encode()

	var bodyReader io.Reader
	contentType := ""
	switch {
	case len(r.Form) > 0:
		bodyReader = strings.NewReader(r.Form.Encode())
		contentType = "application/x-www-form-urlencoded"
	case r.Body != nil:
		bodyReader = bytes.NewReader(r.Body)
	}

	req, err := http.NewRequest(r.Method, reqURL.String(), bodyReader)
	if err != nil {
		return nil, err
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	for key, value := range r.Headers {
		req.Header.Set(key, value)
	}

	return req, nil
}

// HeaderNames returns the request header names in sorted order.
func (r *Request) HeaderNames() []string {
	names := make([]string, 0, len(r.Headers))
	for name := range r.Headers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
