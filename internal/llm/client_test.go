package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server, New(server.URL+"/v1", "")
}

func TestComplete(t *testing.T) {
	var gotModel string
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/chat/completions", r.URL.Path)

		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		gotModel = req.Model

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"choices":[{"message":{"role":"assistant","content":"hi there"}}]}`)
	})

	out, err := client.Complete(context.Background(), "llama3", []Message{
		{Role: "user", Content: "hello"},
	})

	require.NoError(t, err)
	assert.Equal(t, "hi there", out)
	assert.Equal(t, "llama3", gotModel)
}

func TestCompleteStream(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"Hel\"}}]}\n\n")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"lo\"}}]}\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	})

	var tokens []string
	full, err := client.CompleteStream(context.Background(), "llama3", []Message{
		{Role: "user", Content: "hello"},
	}, func(token string) error {
		tokens = append(tokens, token)
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"Hel", "lo"}, tokens)
	assert.Equal(t, "Hello", full)
}

func TestCompleteStreamCallbackAborts(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"a\"}}]}\n\n")
		fmt.Fprint(w, "data: {\"choices\":[{\"delta\":{\"content\":\"b\"}}]}\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	})

	abort := fmt.Errorf("stop")
	_, err := client.CompleteStream(context.Background(), "llama3", nil, func(string) error {
		return abort
	})

	assert.ErrorIs(t, err, abort)
}

func TestListModels(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/models", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"data":[{"id":"llama3","object":"model"},{"id":"mistral","object":"model"}]}`)
	})

	names, err := client.ListModels(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"llama3", "mistral"}, names)
}

func TestHasModel(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"data":[{"id":"llama3","object":"model"}]}`)
	})

	ok, err := client.HasModel(context.Background(), "llama3")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = client.HasModel(context.Background(), "mistral")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCompleteModelNotFound(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"error":{"message":"model 'missing' not found","type":"invalid_request_error"}}`)
	})

	_, err := client.Complete(context.Background(), "missing", []Message{{Role: "user", Content: "x"}})

	assert.ErrorIs(t, err, ErrModelNotFound)
	assert.Contains(t, err.Error(), "missing")
}

func TestCompleteRuntimeUnavailable(t *testing.T) {
	server := httptest.NewServer(nil)
	url := server.URL
	server.Close()

	client := New(url+"/v1", "")
	_, err := client.Complete(context.Background(), "llama3", []Message{{Role: "user", Content: "x"}})

	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestNewDefaultsBaseURL(t *testing.T) {
	// Just a constructor sanity check; the default targets the local runtime.
	assert.Equal(t, "http://localhost:11434/v1", DefaultBaseURL)
	assert.NotNil(t, New("", ""))
}
