// Package blotato wraps the Blotato social posting API.
package blotato

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/reelay/reelay/pkg/models"
)

const DefaultBaseURL = "https://backend.blotato.com/v2"

const defaultHTTPTimeout = 60 * time.Second

// Client calls the Blotato media and posts endpoints. BaseURL and
// HTTPClient may be overridden before first use.
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

// PostRequest describes one platform post. Title and the synthetic
// media flags only apply to the platforms that accept them.
type PostRequest struct {
	Platform  models.Platform
	AccountID string
	Content   string
	MediaURL  string
	Title     string
}

type mediaRequest struct {
	MediaURL string `json:"mediaUrl"`
}

type mediaResponse struct {
	URL string `json:"url"`
}

type postPayload struct {
	Platform               string   `json:"platform"`
	AccountID              string   `json:"accountId"`
	Content                string   `json:"content"`
	MediaURLs              []string `json:"mediaUrls"`
	Title                  string   `json:"title,omitempty"`
	ContainsSyntheticMedia *bool    `json:"containsSyntheticMedia,omitempty"`
	IsAIGenerated          *bool    `json:"isAiGenerated,omitempty"`
}

type postResponse struct {
	ID string `json:"id"`
}

// UploadMedia re-hosts a video URL on Blotato's CDN and returns the
// hosted URL to post from.
func (c *Client) UploadMedia(ctx context.Context, mediaURL string) (string, error) {
	var response mediaResponse

	err := c.postJSON(ctx, "/media", mediaRequest{MediaURL: mediaURL}, &response)
	if err != nil {
		return "", fmt.Errorf("failed to upload media: %w", err)
	}

	if response.URL == "" {
		return "", errors.New("media upload response carried no url")
	}

	return response.URL, nil
}

// CreatePost publishes one post. YouTube posts carry a title and the
// synthetic media disclosure; TikTok posts carry the AI-generated
// disclosure; Instagram takes the bare payload.
func (c *Client) CreatePost(ctx context.Context, post PostRequest) (string, error) {
	payload := postPayload{
		Platform:  string(post.Platform),
		AccountID: post.AccountID,
		Content:   post.Content,
		MediaURLs: []string{post.MediaURL},
	}

	flag := true

	switch post.Platform {
	case models.PlatformYouTube:
		payload.Title = post.Title
		payload.ContainsSyntheticMedia = &flag
	case models.PlatformTikTok:
		payload.IsAIGenerated = &flag
	case models.PlatformInstagram:
	}

	var response postResponse

	err := c.postJSON(ctx, "/posts", payload, &response)
	if err != nil {
		return "", fmt.Errorf("failed to post to %s: %w", post.Platform, err)
	}

	return response.ID, nil
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

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

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
