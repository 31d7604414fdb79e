package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newMessagesServer(t *testing.T, status int, body string, seen *map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))
		if seen != nil {
			raw, _ := io.ReadAll(r.Body)
			_ = json.Unmarshal(raw, seen)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestAnthropicClient_Complete(t *testing.T) {
	var req map[string]any
	srv := newMessagesServer(t, http.StatusOK, `{
		"id": "msg_01",
		"type": "message",
		"role": "assistant",
		"model": "claude-3-5-haiku-latest",
		"content": [
			{"type": "text", "text": "[{\"tag\":\"beach\","},
			{"type": "text", "text": "\"confidence\":90}]"}
		],
		"stop_reason": "end_turn",
		"usage": {"input_tokens": 12, "output_tokens": 9}
	}`, &req)

	c := NewAnthropicClient("test-key", "", zap.NewNop(), option.WithBaseURL(srv.URL))
	text, err := c.Complete(context.Background(), "match this", 512)

	require.NoError(t, err)
	assert.Equal(t, `[{"tag":"beach","confidence":90}]`, text)
	assert.Equal(t, DefaultAnthropicModel, req["model"])
	assert.EqualValues(t, 512, req["max_tokens"])
	assert.Equal(t, "Claude", c.SourceName())
}

func TestAnthropicClient_NoTextBlocks(t *testing.T) {
	srv := newMessagesServer(t, http.StatusOK, `{
		"id": "msg_02", "type": "message", "role": "assistant", "model": "m",
		"content": [], "stop_reason": "end_turn",
		"usage": {"input_tokens": 1, "output_tokens": 0}
	}`, nil)

	c := NewAnthropicClient("test-key", "m", zap.NewNop(), option.WithBaseURL(srv.URL))
	_, err := c.Complete(context.Background(), "hi", 16)

	assert.ErrorIs(t, err, ErrEmptyCompletion)
}

func TestAnthropicClient_ServerErrorIsNotRetried(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = io.WriteString(w, `{"type":"error","error":{"type":"overloaded_error","message":"Overloaded"}}`)
	}))
	t.Cleanup(srv.Close)

	c := NewAnthropicClient("test-key", "m", zap.NewNop(), option.WithBaseURL(srv.URL))
	_, err := c.Complete(context.Background(), "hi", 16)

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestStubClient_ReplaysScript(t *testing.T) {
	c := NewStubClient("one", "two")
	ctx := context.Background()

	for _, want := range []string{"one", "two", "two"} {
		got, err := c.Complete(ctx, "p", 1)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	assert.Equal(t, 3, c.Calls())
	assert.Equal(t, []string{"p", "p", "p"}, c.Prompts())
}

func TestStubClient_EmptyScriptAndFailure(t *testing.T) {
	got, err := NewStubClient().Complete(context.Background(), "p", 1)
	require.NoError(t, err)
	assert.Equal(t, "[]", got)

	boom := errors.New("boom")
	failing := NewFailingStubClient(boom)
	_, err = failing.Complete(context.Background(), "p", 1)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, failing.Calls())
}
