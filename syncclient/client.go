// Package syncclient talks to the remote payroll backend.
package syncclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"payroll/models"
)

// TokenSource returns a bearer token for the next request.
type TokenSource func() (string, error)

type Client struct {
	baseURL    string
	httpClient *http.Client
	token      TokenSource
}

// HistoryResponse is the body of GET api/salary/history.
type HistoryResponse struct {
	Success  bool                   `json:"success"`
	Message  string                 `json:"message"`
	Salaries []models.PayrollRecord `json:"salaries"`
}

type apiResponse struct {
	Success bool   `json:"success"`
	Status  string `json:"status"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// StatusError is returned when the backend answers with a non-2xx status.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("remote returned status %d", e.Code)
	}
	return fmt.Sprintf("remote returned status %d: %s", e.Code, e.Message)
}

func New(baseURL string, timeout time.Duration, token TokenSource) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		token:      token,
	}
}

// Push sends one payroll record. Sending the same record twice is safe on
// the backend side, which keys records by id.
func (c *Client) Push(ctx context.Context, record models.PayrollRecord) error {
	body, err := json.Marshal(record)
	if err != nil {
		return err
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/api/salary", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusError(resp)
	}
	io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *Client) FetchHistory(ctx context.Context) ([]models.PayrollRecord, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/salary/history", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp)
	}

	var history HistoryResponse
	if err := json.NewDecoder(resp.Body).Decode(&history); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	if !history.Success {
		return nil, fmt.Errorf("remote history: %s", history.Message)
	}
	return history.Salaries, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.token != nil {
		token, err := c.token()
		if err != nil {
			return nil, fmt.Errorf("sync token: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

func statusError(resp *http.Response) error {
	var body apiResponse
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	msg := strings.TrimSpace(string(data))
	if json.Unmarshal(data, &body) == nil {
		switch {
		case body.Error != "":
			msg = body.Error
		case body.Message != "":
			msg = body.Message
		}
	}
	return &StatusError{Code: resp.StatusCode, Message: msg}
}
