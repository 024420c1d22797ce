package util

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

var (
	// ErrSendFailed is returned when the request could not be created or sent
	ErrSendFailed = errors.New("sending failed")
	// ErrResponseReadFail is returned when the response to the request could not be read
	ErrResponseReadFail = errors.New("failed to read response")
	// ErrBadResponse is returned when the request did not receive a 2** response
	ErrBadResponse = errors.New("bad response")
)

// RequestOption can be used to modify the request that is to be sent
type RequestOption func(*http.Request)

// JsonRequest sets the content type to application/json
func JsonRequest() RequestOption {
	return func(r *http.Request) {
		r.Header.Set("Content-Type", "application/json")
	}
}

// SendMsg sends body to the address and returns the response body
func SendMsg(ctx context.Context, method, toAddr string, body []byte, options ...RequestOption) ([]byte, error) {
	if !strings.HasPrefix(toAddr, "http://") && !strings.HasPrefix(toAddr, "https://") {
		toAddr = "http://" + toAddr
	}
	req, err := http.NewRequestWithContext(ctx, method, toAddr, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrSendFailed, err)
	}
	for _, o := range options {
		o(req)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrSendFailed, err)
	}
	defer resp.Body.Close()
	respB, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, ErrResponseReadFail
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %s: %s", ErrBadResponse, resp.Status, bytes.TrimSpace(respB))
	}
	return respB, nil
}

// PostJSON posts in as JSON and decodes the JSON response into out
func PostJSON(ctx context.Context, toAddr string, in, out interface{}) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrSendFailed, err)
	}
	respB, err := SendMsg(ctx, http.MethodPost, toAddr, body, JsonRequest())
	if err != nil {
		return err
	}
	if err := json.Unmarshal(respB, out); err != nil {
		return fmt.Errorf("%w: %s", ErrResponseReadFail, err)
	}
	return nil
}
