package mocks

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
)

// MockHTTPClient is a mock implementation of HTTPClient for testing
type MockHTTPClient struct {
	DoFunc func(req *http.Request) (*http.Response, error)
	Calls  []*http.Request
	// Bodies holds the request body of each call, read eagerly since the
	// client closes bodies after sending.
	Bodies []string
}

// NewMockHTTPClient creates a new mock HTTP client
func NewMockHTTPClient(doFunc func(req *http.Request) (*http.Response, error)) *MockHTTPClient {
	return &MockHTTPClient{
		DoFunc: doFunc,
		Calls:  []*http.Request{},
	}
}

// NewMockHTTPClientWithBodies creates a mock that answers successive calls
// with the given response bodies (status 200). Calls beyond the last body
// repeat it.
func NewMockHTTPClientWithBodies(bodies ...string) *MockHTTPClient {
	m := &MockHTTPClient{Calls: []*http.Request{}}
	m.DoFunc = func(req *http.Request) (*http.Response, error) {
		i := len(m.Calls) - 1
		if i >= len(bodies) {
			i = len(bodies) - 1
		}
		return &http.Response{
			StatusCode: 200,
			Body:       io.NopCloser(bytes.NewBufferString(bodies[i])),
			Header:     make(http.Header),
		}, nil
	}
	return m
}

// Do executes the mock function and captures the call
func (m *MockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	m.Calls = append(m.Calls, req)
	if req.Body != nil {
		raw, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read request body: %w", err)
		}
		m.Bodies = append(m.Bodies, string(raw))
	} else {
		m.Bodies = append(m.Bodies, "")
	}
	if m.DoFunc != nil {
		return m.DoFunc(req)
	}
	// Default success response
	return &http.Response{
		StatusCode: 200,
		Body:       io.NopCloser(bytes.NewBufferString(`{"responseEnvelope":{"ack":"Success"}}`)),
		Header:     make(http.Header),
	}, nil
}

// Reset clears captured calls
func (m *MockHTTPClient) Reset() {
	m.Calls = []*http.Request{}
	m.Bodies = nil
}
