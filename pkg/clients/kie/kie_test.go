package kie

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(handler http.Handler) (*Client, *httptest.Server) {
	server := httptest.NewServer(handler)
	client := NewClient("test-key")
	client.BaseURL = server.URL

	return client, server
}

func TestSubmit(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/jobs/createTask", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var payload map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "sora-2-text-to-video", payload["model"])
		assert.Equal(t, "9:16", payload["aspect_ratio"])
		assert.Equal(t, "a goat hops", payload["prompt"])

		_, _ = w.Write([]byte(`{"data":{"taskId":"task-42"}}`))
	}))
	defer server.Close()

	taskID, err := client.Submit(t.Context(), "a goat hops", "9:16", "sora-2-text-to-video")
	require.NoError(t, err)
	assert.Equal(t, "task-42", taskID)
}

func TestSubmitServerError(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := client.Submit(t.Context(), "a goat hops", "9:16", "sora-2-text-to-video")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestWaitForCompletionSuccess(t *testing.T) {
	var polls atomic.Int32

	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/jobs/recordInfo", r.URL.Path)
		assert.Equal(t, "task-42", r.URL.Query().Get("taskId"))

		if polls.Add(1) < 3 {
			_, _ = w.Write([]byte(`{"data":{"taskId":"task-42","status":"GENERATING"}}`))

			return
		}

		_, _ = w.Write([]byte(`{"data":{"taskId":"task-42","status":"SUCCESS","resultJson":{"resultUrls":["http://x/video.mp4"]}}}`))
	}))
	defer server.Close()

	videoURL, err := client.WaitForCompletion(t.Context(), "task-42", time.Millisecond, time.Second)
	require.NoError(t, err)
	assert.Equal(t, "http://x/video.mp4", videoURL)
	assert.Equal(t, int32(3), polls.Load())
}

func TestWaitForCompletionFailedTask(t *testing.T) {
	var polls atomic.Int32

	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		polls.Add(1)
		_, _ = w.Write([]byte(`{"data":{"taskId":"task-42","status":"FAILED"}}`))
	}))
	defer server.Close()

	_, err := client.WaitForCompletion(t.Context(), "task-42", time.Millisecond, time.Second)
	require.Error(t, err)
	assert.True(t, IsGenerationFailed(err))
	assert.False(t, IsGenerationTimeout(err))
	assert.Equal(t, int32(1), polls.Load(), "a failed task must not be polled again")
}

func TestWaitForCompletionTimeout(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"taskId":"task-42","status":"GENERATING"}}`))
	}))
	defer server.Close()

	_, err := client.WaitForCompletion(t.Context(), "task-42", 5*time.Millisecond, 20*time.Millisecond)
	require.Error(t, err)
	assert.True(t, IsGenerationTimeout(err))
	assert.False(t, IsGenerationFailed(err))
}

func TestWaitForCompletionContextCancelled(t *testing.T) {
	client, server := newTestClient(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"taskId":"task-42","status":"GENERATING"}}`))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := client.WaitForCompletion(ctx, "task-42", 50*time.Millisecond, time.Minute)
	require.ErrorIs(t, err, context.Canceled)
}

func TestResultURL(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "object payload", raw: `{"resultUrls":["http://x/video.mp4"]}`},
		{name: "string-encoded payload", raw: `"{\"resultUrls\":[\"http://x/video.mp4\"]}"`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			videoURL, err := ResultURL(json.RawMessage(tc.raw))
			require.NoError(t, err)
			assert.Equal(t, "http://x/video.mp4", videoURL)
		})
	}
}

func TestResultURLEmpty(t *testing.T) {
	_, err := ResultURL(json.RawMessage(`{"resultUrls":[]}`))
	require.Error(t, err)

	_, err = ResultURL(nil)
	require.Error(t, err)
}
