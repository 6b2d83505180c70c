package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

func stubCompletion(content string) string {
	msg, _ := json.Marshal(content)
	return `{"choices":[{"message":{"content":` + string(msg) + `}}],"usage":{"prompt_tokens":10,"completion_tokens":5,"total_tokens":15}}`
}

func TestParseResumeReturnsModelJSON(t *testing.T) {
	oldURL := apiURL
	t.Cleanup(func() { apiURL = oldURL })

	var mu sync.Mutex
	var lastAuth string
	var lastBody map[string]any

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode request: %v", err)
		}
		mu.Lock()
		lastAuth = r.Header.Get("Authorization")
		lastBody = payload
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(stubCompletion(`{"name":"Priya Sharma","skills":["Go"]}`)))
	}))
	defer server.Close()
	apiURL = server.URL

	client, err := NewClient("test-key", "gpt-4o-mini")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	raw, err := client.ParseResume(context.Background(), "resume text")
	if err != nil {
		t.Fatalf("ParseResume: %v", err)
	}

	var parsed struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}
	if parsed.Name != "Priya Sharma" {
		t.Fatalf("name = %q", parsed.Name)
	}

	mu.Lock()
	defer mu.Unlock()
	if lastAuth != "Bearer test-key" {
		t.Fatalf("authorization = %q", lastAuth)
	}
	if lastBody["model"] != "gpt-4o-mini" {
		t.Fatalf("model = %v", lastBody["model"])
	}
	format, _ := lastBody["response_format"].(map[string]any)
	if format["type"] != "json_object" {
		t.Fatalf("response_format = %v", lastBody["response_format"])
	}
}

func TestParseResumeRetriesMalformedOutput(t *testing.T) {
	oldURL := apiURL
	t.Cleanup(func() { apiURL = oldURL })

	var mu sync.Mutex
	var calls int

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		mu.Lock()
		calls++
		n := calls
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		if n == 1 {
			_, _ = w.Write([]byte(stubCompletion(`not json at all`)))
			return
		}
		_, _ = w.Write([]byte(stubCompletion(`{"name":"Fixed"}`)))
	}))
	defer server.Close()
	apiURL = server.URL

	client, err := NewClient("test-key", "gpt-4o-mini")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	raw, err := client.ParseResume(context.Background(), "resume text")
	if err != nil {
		t.Fatalf("ParseResume: %v", err)
	}

	mu.Lock()
	if calls != 2 {
		t.Fatalf("calls = %d, want one fix-up retry", calls)
	}
	mu.Unlock()
	var parsed struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}
	if parsed.Name != "Fixed" {
		t.Fatalf("name = %q", parsed.Name)
	}
}

func TestParseResumeSurfacesAPIError(t *testing.T) {
	oldURL := apiURL
	t.Cleanup(func() { apiURL = oldURL })

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"error":{"message":"rate limit","type":"rate_limit_error"}}`))
	}))
	defer server.Close()
	apiURL = server.URL

	client, err := NewClient("test-key", "gpt-4o-mini")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if _, err := client.ParseResume(context.Background(), "resume text"); err == nil {
		t.Fatal("expected error from API error payload")
	}
}

func TestRecoverJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
		ok   bool
	}{
		{name: "strict", raw: `{"a":1}`, want: `{"a":1}`, ok: true},
		{name: "code fence", raw: "```json\n{\"a\":1}\n```", want: `{"a":1}`, ok: true},
		{name: "prose wrapped", raw: `Here you go: {"a":1} hope that helps`, want: `{"a":1}`, ok: true},
		{name: "garbage", raw: `no braces here`, ok: false},
		{name: "empty", raw: "", ok: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got, ok := recoverJSON(json.RawMessage(tt.raw))
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok && string(got) != tt.want {
				t.Fatalf("got %s, want %s", got, tt.want)
			}
		})
	}
}
