// Package kie wraps the Kie.ai video generation API (Sora jobs).
package kie

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const DefaultBaseURL = "https://api.kie.ai/api/v1"

const (
	defaultHTTPTimeout = 30 * time.Second

	// Vendor task status vocabulary.
	StatusSuccess = "SUCCESS"
	StatusFailed  = "FAILED"
	StatusError   = "ERROR"
)

// ErrGenerationTimeout means the max wait elapsed while the task was
// still in flight. Distinct from ErrGenerationFailed so callers can
// tell a slow render from a rejected one.
var ErrGenerationTimeout = errors.New("video generation timed out")

// ErrGenerationFailed means the vendor reported the task as failed.
var ErrGenerationFailed = errors.New("video generation failed")

func IsGenerationTimeout(err error) bool {
	return errors.Is(err, ErrGenerationTimeout)
}

func IsGenerationFailed(err error) bool {
	return errors.Is(err, ErrGenerationFailed)
}

// Client calls the Kie jobs API. BaseURL and HTTPClient may be
// overridden before first use.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	apiKey string
}

func NewClient(apiKey string) *Client {
	return &Client{
		BaseURL:    DefaultBaseURL,
		HTTPClient: &http.Client{Timeout: defaultHTTPTimeout},
		apiKey:     apiKey,
	}
}

// TaskRecord is the polled state of one generation task. ResultJSON
// arrives either as a JSON object or as a JSON-encoded string holding
// an object, depending on the vendor's mood.
type TaskRecord struct {
	TaskID     string          `json:"taskId"`
	Status     string          `json:"status"`
	ResultJSON json.RawMessage `json:"resultJson"`
}

type createTaskRequest struct {
	Model       string `json:"model"`
	Prompt      string `json:"prompt"`
	AspectRatio string `json:"aspect_ratio"`
}

type createTaskResponse struct {
	Data struct {
		TaskID string `json:"taskId"`
	} `json:"data"`
}

type recordInfoResponse struct {
	Data TaskRecord `json:"data"`
}

// Submit creates a generation task and returns its id.
func (c *Client) Submit(ctx context.Context, prompt, aspectRatio, model string) (string, error) {
	payload := createTaskRequest{
		Model:       model,
		Prompt:      prompt,
		AspectRatio: aspectRatio,
	}

	var response createTaskResponse

	err := c.postJSON(ctx, "/jobs/createTask", payload, &response)
	if err != nil {
		return "", fmt.Errorf("failed to create generation task: %w", err)
	}

	if response.Data.TaskID == "" {
		return "", errors.New("create task response carried no task id")
	}

	return response.Data.TaskID, nil
}

// Status fetches the current record for a task.
func (c *Client) Status(ctx context.Context, taskID string) (*TaskRecord, error) {
	endpoint := c.BaseURL + "/jobs/recordInfo?taskId=" + url.QueryEscape(taskID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build status request: %w", err)
	}

	c.setHeaders(req)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch task status: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(resp.Body)

		return nil, fmt.Errorf("task status request returned %d: %s", resp.StatusCode, body)
	}

	var response recordInfoResponse

	err = json.NewDecoder(resp.Body).Decode(&response)
	if err != nil {
		return nil, fmt.Errorf("failed to decode task status: %w", err)
	}

	return &response.Data, nil
}

// WaitForCompletion polls the task every interval until it succeeds,
// fails, exhausts maxWait, or the context is cancelled. On success it
// returns the first result URL.
func (c *Client) WaitForCompletion(ctx context.Context, taskID string, interval, maxWait time.Duration) (string, error) {
	deadline := time.Now().Add(maxWait)

	for {
		record, err := c.Status(ctx, taskID)
		if err != nil {
			return "", err
		}

		switch record.Status {
		case StatusSuccess:
			return ResultURL(record.ResultJSON)
		case StatusFailed, StatusError:
			return "", fmt.Errorf("%w: task %s reported %s", ErrGenerationFailed, taskID, record.Status)
		}

		if !time.Now().Add(interval).Before(deadline) {
			return "", fmt.Errorf("%w: task %s still pending after %s", ErrGenerationTimeout, taskID, maxWait)
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(interval):
		}
	}
}

// ResultURL extracts the first result URL from a completed task's
// resultJson payload, accepting both the object and the
// string-encoded-object encodings.
func ResultURL(raw json.RawMessage) (string, error) {
	if len(raw) == 0 {
		return "", errors.New("task result is empty")
	}

	payload := []byte(raw)

	var encoded string
	if json.Unmarshal(raw, &encoded) == nil {
		payload = []byte(encoded)
	}

	var result struct {
		ResultURLs []string `json:"resultUrls"`
	}

	err := json.Unmarshal(payload, &result)
	if err != nil {
		return "", fmt.Errorf("failed to parse task result: %w", err)
	}

	if len(result.ResultURLs) == 0 {
		return "", errors.New("task result carried no urls")
	}

	return result.ResultURLs[0], nil
}

func (c *Client) postJSON(ctx context.Context, path string, payload, response any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	c.setHeaders(req)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		responseBody, _ := io.ReadAll(resp.Body)

		return fmt.Errorf("request returned %d: %s", resp.StatusCode, responseBody)
	}

	err = json.NewDecoder(resp.Body).Decode(response)
	if err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
}
