package httpclient

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kbukum/llmgate/resilience"
	"github.com/kbukum/llmgate/security"
	"github.com/kbukum/llmgate/security/tlstest"
)

func TestClient_Do_POST_JSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("Authorization = %q", got)
		}
		if got := r.Header.Get("Content-Type"); got != "application/json" {
			t.Errorf("Content-Type = %q", got)
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		_ = json.NewEncoder(w).Encode(body)
	}))
	defer srv.Close()

	c, err := New(Config{BaseURL: srv.URL + "/", Auth: BearerAuth("sk-test")})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	resp, err := c.Do(context.Background(), Request{
		Method: http.MethodPost,
		Path:   "/v1/chat/completions",
		Body:   map[string]string{"model": "gpt-4o"},
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if !strings.Contains(string(resp.Body), "gpt-4o") {
		t.Errorf("body = %s", resp.Body)
	}
}

func TestClient_APIKeyHeaderAndQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("x-api-key"); got != "k1" {
			t.Errorf("x-api-key = %q", got)
		}
		if got := r.URL.Query().Get("alt"); got != "sse" {
			t.Errorf("alt = %q", got)
		}
		if got := r.Header.Get("anthropic-version"); got != "2023-06-01" {
			t.Errorf("anthropic-version = %q", got)
		}
	}))
	defer srv.Close()

	c, _ := New(Config{
		BaseURL: srv.URL,
		Auth:    APIKeyAuthHeader("k1", "x-api-key"),
		Headers: map[string]string{"anthropic-version": "2023-06-01"},
	})
	if _, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/x", Query: map[string]string{"alt": "sse"}}); err != nil {
		t.Fatalf("Do: %v", err)
	}
}

func TestClient_Do_ClassifiesStatus(t *testing.T) {
	tests := []struct {
		status    int
		code      ErrorCode
		retryable bool
	}{
		{http.StatusUnauthorized, ErrCodeAuth, false},
		{http.StatusNotFound, ErrCodeNotFound, false},
		{http.StatusTooManyRequests, ErrCodeRateLimit, true},
		{http.StatusBadRequest, ErrCodeValidation, false},
		{http.StatusServiceUnavailable, ErrCodeServer, true},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"error":{"message":"vendor says no"}}`))
			}))
			defer srv.Close()

			c, _ := New(Config{BaseURL: srv.URL})
			_, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/"})
			var e *Error
			if !errors.As(err, &e) {
				t.Fatalf("err = %v, want *Error", err)
			}
			if e.Code != tt.code || e.Retryable != tt.retryable {
				t.Errorf("Code = %s retryable = %v, want %s %v", e.Code, e.Retryable, tt.code, tt.retryable)
			}
			if !strings.Contains(e.Error(), "vendor says no") {
				t.Errorf("Error() = %q, want vendor body", e.Error())
			}
		})
	}
}

func TestClient_Do_Retry(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	retry := DefaultRetryConfig()
	retry.InitialBackoff = time.Millisecond
	c, _ := New(Config{BaseURL: srv.URL, Retry: retry})

	resp, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/"})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if string(resp.Body) != "ok" || calls.Load() != 3 {
		t.Errorf("body = %q calls = %d", resp.Body, calls.Load())
	}
}

func TestClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	c, _ := New(Config{BaseURL: srv.URL, Timeout: 20 * time.Millisecond})
	_, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/"})
	if !IsTimeout(err) {
		t.Fatalf("err = %v, want timeout", err)
	}
}

func TestClient_ConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	c, _ := New(Config{BaseURL: url})
	_, err := c.DoStream(context.Background(), Request{Method: http.MethodPost, Path: "/"})
	if !IsConnection(err) {
		t.Fatalf("err = %v, want connection error", err)
	}
}

func TestClient_DoStream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Accept"); got != "text/event-stream" {
			t.Errorf("Accept = %q", got)
		}
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		for _, d := range []string{"a", "b"} {
			_, _ = io.WriteString(w, "data: "+d+"\n\n")
			flusher.Flush()
		}
	}))
	defer srv.Close()

	c, _ := New(Config{BaseURL: srv.URL, Timeout: time.Nanosecond * 1})
	stream, err := c.DoStream(context.Background(), Request{Method: http.MethodPost, Path: "/", Body: map[string]bool{"stream": true}})
	if err != nil {
		t.Fatalf("DoStream: %v", err)
	}
	defer stream.Close()

	var got []string
	for {
		ev, err := stream.SSE.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		got = append(got, ev.Data)
	}
	if strings.Join(got, ",") != "a,b" {
		t.Errorf("events = %v", got)
	}
}

func TestClient_DoStream_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c, _ := New(Config{BaseURL: srv.URL})
	_, err := c.DoStream(context.Background(), Request{Method: http.MethodPost, Path: "/"})
	if !IsRateLimit(err) {
		t.Fatalf("err = %v, want rate limit", err)
	}
}

func TestClient_CircuitBreakerOpens(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c, _ := New(Config{BaseURL: srv.URL, CircuitBreaker: &resilience.CircuitBreakerConfig{Name: "gpt", MaxFailures: 2, Timeout: time.Minute}})
	for i := 0; i < 2; i++ {
		_, _ = c.DoStream(context.Background(), Request{Method: http.MethodPost, Path: "/"})
	}
	if c.BreakerState() != resilience.StateOpen {
		t.Fatalf("BreakerState = %s, want open", c.BreakerState())
	}

	_, err := c.DoStream(context.Background(), Request{Method: http.MethodPost, Path: "/"})
	if !errors.Is(err, resilience.ErrCircuitOpen) {
		t.Errorf("err = %v, want ErrCircuitOpen", err)
	}
	if calls.Load() != 2 {
		t.Errorf("server calls = %d, want 2", calls.Load())
	}
}

func TestClient_TLSPrivateCA(t *testing.T) {
	certs := tlstest.Generate(t)
	srv := httptest.NewUnstartedServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "ok")
	}))
	srv.TLS = &tls.Config{Certificates: []tls.Certificate{certs.Leaf}}
	srv.StartTLS()
	defer srv.Close()

	req := Request{Method: http.MethodGet, Path: "/"}

	untrusted, err := New(Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := untrusted.Do(context.Background(), req); err == nil {
		t.Error("expected certificate error without the private CA")
	}

	trusted, err := New(Config{BaseURL: srv.URL, TLS: &security.TLSConfig{CAFile: certs.CAFile}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	resp, err := trusted.Do(context.Background(), req)
	if err != nil {
		t.Fatalf("Do with private CA: %v", err)
	}
	if string(resp.Body) != "ok" {
		t.Errorf("body = %q, want ok", resp.Body)
	}
}

func TestNew_InvalidTLS(t *testing.T) {
	if _, err := New(Config{TLS: &security.TLSConfig{CertFile: "only-cert.pem"}}); err == nil {
		t.Error("expected error for cert without key")
	}
}
