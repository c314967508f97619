// Package e2e drives a running customer-service over HTTP with godog
// scenarios.
package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// TestContext carries the HTTP client, the last response and the ids
// remembered between steps of one scenario.
type TestContext struct {
	baseURL string
	client  *http.Client

	status int
	body   []byte
	ids    map[string]int64
}

func NewTestContext(baseURL string) *TestContext {
	return &TestContext{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
		ids:     make(map[string]int64),
	}
}

// Reset clears per-scenario state.
func (tc *TestContext) Reset() {
	tc.status = 0
	tc.body = nil
	tc.ids = make(map[string]int64)
}

func (tc *TestContext) GET(path string) error {
	return tc.do(http.MethodGet, path, nil, "")
}

func (tc *TestContext) DELETE(path string) error {
	return tc.do(http.MethodDelete, path, nil, "")
}

func (tc *TestContext) SendJSON(method, path string, body any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal body: %w", err)
	}
	return tc.do(method, path, bytes.NewReader(payload), "application/json")
}

// SendMultipart posts form fields and, when fileName is set, a file part.
func (tc *TestContext) SendMultipart(method, path string, fields map[string]string, fileName string, content []byte) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return err
		}
	}
	if fileName != "" {
		part, err := mw.CreateFormFile("file", fileName)
		if err != nil {
			return err
		}
		if _, err := part.Write(content); err != nil {
			return err
		}
	}
	if err := mw.Close(); err != nil {
		return err
	}
	return tc.do(method, path, &buf, mw.FormDataContentType())
}

func (tc *TestContext) do(method, path string, body io.Reader, contentType string) error {
	req, err := http.NewRequest(method, tc.baseURL+path, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := tc.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	tc.status = resp.StatusCode
	tc.body, err = io.ReadAll(resp.Body)
	return err
}

func (tc *TestContext) StatusCode() int {
	return tc.status
}

func (tc *TestContext) Body() []byte {
	return tc.body
}

// ResponseField returns a top-level field of the last JSON object response.
func (tc *TestContext) ResponseField(field string) (any, error) {
	var obj map[string]any
	if err := json.Unmarshal(tc.body, &obj); err != nil {
		return nil, fmt.Errorf("response is not a JSON object: %s", tc.body)
	}
	v, ok := obj[field]
	if !ok {
		return nil, fmt.Errorf("response has no field %q: %s", field, tc.body)
	}
	return v, nil
}

// ResponseID reads a numeric id field from the last response.
func (tc *TestContext) ResponseID(field string) (int64, error) {
	v, err := tc.ResponseField(field)
	if err != nil {
		return 0, err
	}
	n, ok := v.(float64)
	if !ok {
		return 0, fmt.Errorf("field %q is not numeric: %v", field, v)
	}
	return int64(n), nil
}

func (tc *TestContext) Remember(name string, id int64) {
	tc.ids[name] = id
}

func (tc *TestContext) Recall(name string) (int64, error) {
	id, ok := tc.ids[name]
	if !ok {
		return 0, fmt.Errorf("nothing remembered as %q", name)
	}
	return id, nil
}
