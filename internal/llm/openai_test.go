package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"grocery-planner/internal/config"
)

func newTestOpenAIClient(url string) *openAIClient {
	c := NewOpenAIClient(&config.Config{OpenAIAPIKey: "sk-test", OpenAIModel: "gpt-4-turbo-preview"}).(*openAIClient)
	c.baseURL = url
	return c
}

func TestOpenAIGenerateContent_Success(t *testing.T) {
	var gotBody map[string]interface{}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer sk-test" {
			t.Error("Expected the bearer token header")
		}
		json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{
			"model": "gpt-4-turbo-preview",
			"choices": [{"message": {"content": "{\"recipes\": []}"}}],
			"usage": {"prompt_tokens": 12, "completion_tokens": 34, "total_tokens": 46}
		}`))
	}))
	defer ts.Close()

	c := newTestOpenAIClient(ts.URL)
	resp, err := c.GenerateContent(context.Background(), Request{
		SystemInstruction: "Return JSON only.",
		Prompt:            "Generate recipes.",
		Temperature:       0.7,
		MaxTokens:         4000,
	})
	if err != nil {
		t.Fatalf("GenerateContent failed: %v", err)
	}

	if resp.Content != `{"recipes": []}` {
		t.Errorf("Unexpected content: %s", resp.Content)
	}
	if resp.Usage.PromptTokens != 12 || resp.Usage.CompletionTokens != 34 {
		t.Errorf("Unexpected usage: %+v", resp.Usage)
	}
	if resp.Usage.Model != "gpt-4-turbo-preview" {
		t.Errorf("Expected the model echoed into usage, got %s", resp.Usage.Model)
	}

	// The wire request carries the system message and JSON response format.
	messages := gotBody["messages"].([]interface{})
	if len(messages) != 2 {
		t.Fatalf("Expected system + user messages, got %d", len(messages))
	}
	first := messages[0].(map[string]interface{})
	if first["role"] != "system" {
		t.Errorf("Expected the first message to be the system instruction, got %v", first["role"])
	}
	format := gotBody["response_format"].(map[string]interface{})
	if format["type"] != "json_object" {
		t.Error("Expected json_object response format")
	}
}

func TestOpenAIGenerateContent_NoChoices(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"model": "gpt-4-turbo-preview", "choices": []}`))
	}))
	defer ts.Close()

	c := newTestOpenAIClient(ts.URL)
	_, err := c.GenerateContent(context.Background(), Request{Prompt: "hi"})
	if !errors.Is(err, ErrNoResponse) {
		t.Fatalf("Expected ErrNoResponse, got %v", err)
	}
}

func TestOpenAIGenerateContent_HTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": {"message": "rate limited"}}`))
	}))
	defer ts.Close()

	c := newTestOpenAIClient(ts.URL)
	_, err := c.GenerateContent(context.Background(), Request{Prompt: "hi"})

	var transport *TransportError
	if !errors.As(err, &transport) {
		t.Fatalf("Expected TransportError, got %v", err)
	}
	if transport.StatusCode != http.StatusTooManyRequests {
		t.Errorf("Expected status 429, got %d", transport.StatusCode)
	}
}

func TestOpenAIGenerateContent_ConnectionRefused(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ts.Close() // closed on purpose

	c := newTestOpenAIClient(ts.URL)
	_, err := c.GenerateContent(context.Background(), Request{Prompt: "hi"})

	var transport *TransportError
	if !errors.As(err, &transport) {
		t.Fatalf("Expected TransportError for a refused connection, got %v", err)
	}
	if transport.StatusCode != 0 {
		t.Errorf("Expected zero status code before any HTTP response, got %d", transport.StatusCode)
	}
}
