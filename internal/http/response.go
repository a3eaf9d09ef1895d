package http

import (
	"fmt"
	"io"
	"net/http"
	"time"
)

// Response is the result of one shot. The body is read eagerly by Client.Do
// so that the content transfer phase is part of the measured timing.
type Response struct {
	StatusCode   int
	Status       string
	Headers      http.Header
	Body         io.ReadCloser
	ResponseTime time.Duration
	Timing       TimingInfo
	rawBody      []byte
	parsed       bool
}

// GetBody returns the response body as a byte array
func (r *Response) GetBody() ([]byte, error) {
	if r.parsed {
		return r.rawBody, nil
	}
	if r.Body == nil {
		r.parsed = true
		return nil, nil
	}

	defer r.Body.Close()
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}
	r.rawBody = body
	r.parsed = true
	return body, nil
}

// GetBodyAsString returns the response body as a string
func (r *Response) GetBodyAsString() (string, error) {
	body, err := r.GetBody()
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// Size returns the number of body bytes received.
func (r *Response) Size() int64 {
	body, err := r.GetBody()
	if err != nil {
		return 0
	}
	return int64(len(body))
}

// GetHeader returns the value of the specified header
func (r *Response) GetHeader(key string) string {
	return r.Headers.Get(key)
}

// IsSuccess returns true if the response status code is in the 2xx range
func (r *Response) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// StatusClass groups the status code by its first digit, e.g. "2xx".
func (r *Response) StatusClass() string {
	if r.StatusCode < 100 || r.StatusCode > 599 {
		return "other"
	}
	return fmt.Sprintf("%dxx", r.StatusCode/100)
}

// GetResponseTimeMillis returns the response time in milliseconds
func (r *Response) GetResponseTimeMillis() int64 {
	return r.ResponseTime.Milliseconds()
}
