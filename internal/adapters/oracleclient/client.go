// Package oracleclient talks to the oracle HTTP API.
package oracleclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// APIError is a non-2xx reply. Message is the server's "message" field when
// present, otherwise the raw body.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("oracle api: status %d: %s", e.Status, e.Message)
}

// IsNotFound reports whether err is a 404 from the server.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

type Answer struct {
	ID        string    `json:"id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	CreatedAt time.Time `json:"createdAt"`
	UserID    *string   `json:"userId,omitempty"`
}

type Client struct {
	httpClient *http.Client
	baseURL    string
}

func NewClient(httpClient *http.Client, baseURL string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{httpClient: httpClient, baseURL: strings.TrimRight(baseURL, "/")}
}

// Ask posts a question and returns the stored answer.
func (c *Client) Ask(ctx context.Context, question string) (Answer, error) {
	body, err := json.Marshal(map[string]string{"question": question})
	if err != nil {
		return Answer{}, fmt.Errorf("marshal request: %w", err)
	}
	var out Answer
	if err := c.do(ctx, http.MethodPost, "/api/ask", body, &out); err != nil {
		return Answer{}, err
	}
	return out, nil
}

func (c *Client) DailyFortune(ctx context.Context) (string, error) {
	var out struct {
		Fortune string `json:"fortune"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/daily-fortune", nil, &out); err != nil {
		return "", err
	}
	return out.Fortune, nil
}

// ListAnswers returns stored answers newest first. A non-empty userID
// narrows the list to that user.
func (c *Client) ListAnswers(ctx context.Context, userID string) ([]Answer, error) {
	path := "/api/answers"
	if userID != "" {
		path += "?userId=" + url.QueryEscape(userID)
	}
	var out []Answer
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetAnswer(ctx context.Context, id string) (Answer, error) {
	var out Answer
	if err := c.do(ctx, http.MethodGet, "/api/answers/"+url.PathEscape(id), nil, &out); err != nil {
		return Answer{}, err
	}
	return out, nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http call: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeAPIError(resp.StatusCode, respBody)
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeAPIError(status int, body []byte) error {
	var msg struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &msg); err == nil && msg.Message != "" {
		return &APIError{Status: status, Message: msg.Message}
	}
	text := strings.TrimSpace(string(body))
	if text == "" {
		text = http.StatusText(status)
	}
	return &APIError{Status: status, Message: text}
}
