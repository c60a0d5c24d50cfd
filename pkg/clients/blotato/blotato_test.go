package blotato

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/reelay/reelay/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(handler http.Handler) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	client := NewClient("test-key")
	client.BaseURL = server.URL

	return client, server
}

func TestUploadMedia(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/media", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "http://x/video.mp4", payload["mediaUrl"])

		_, _ = w.Write([]byte(`{"url":"https://cdn.blotato.com/abc.mp4"}`))
	}))
	defer server.Close()

	hosted, err := client.UploadMedia(t.Context(), "http://x/video.mp4")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.blotato.com/abc.mp4", hosted)
}

func TestCreatePostPlatformFlags(t *testing.T) {
	var payloads []map[string]any

	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/posts", r.URL.Path)

		var payload map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		payloads = append(payloads, payload)

		_, _ = w.Write([]byte(`{"id":"post-1"}`))
	}))
	defer server.Close()

	base := PostRequest{
		AccountID: "19977",
		Content:   "Tiny hops. #goats #cute",
		MediaURL:  "https://cdn.blotato.com/abc.mp4",
		Title:     "Tiny hops",
	}

	for _, platform := range []models.Platform{models.PlatformYouTube, models.PlatformInstagram, models.PlatformTikTok} {
		post := base
		post.Platform = platform

		_, err := client.CreatePost(t.Context(), post)
		require.NoError(t, err)
	}

	require.Len(t, payloads, 3)

	youtube := payloads[0]
	assert.Equal(t, "youtube", youtube["platform"])
	assert.Equal(t, "Tiny hops", youtube["title"])
	assert.Equal(t, true, youtube["containsSyntheticMedia"])
	assert.NotContains(t, youtube, "isAiGenerated")

	instagram := payloads[1]
	assert.Equal(t, "instagram", instagram["platform"])
	assert.NotContains(t, instagram, "title")
	assert.NotContains(t, instagram, "containsSyntheticMedia")
	assert.NotContains(t, instagram, "isAiGenerated")

	tiktok := payloads[2]
	assert.Equal(t, "tiktok", tiktok["platform"])
	assert.Equal(t, true, tiktok["isAiGenerated"])
	assert.NotContains(t, tiktok, "containsSyntheticMedia")

	for _, payload := range payloads {
		assert.Equal(t, []any{"https://cdn.blotato.com/abc.mp4"}, payload["mediaUrls"])
		assert.Equal(t, "Tiny hops. #goats #cute", payload["content"])
	}
}

func TestCreatePostServerError(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "account suspended", http.StatusForbidden)
	}))
	defer server.Close()

	_, err := client.CreatePost(t.Context(), PostRequest{
		Platform:  models.PlatformTikTok,
		AccountID: "22514",
		Content:   "x",
		MediaURL:  "https://cdn.blotato.com/abc.mp4",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tiktok")
}
