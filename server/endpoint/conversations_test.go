package endpoint

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/llmgate/conversation"
	"github.com/kbukum/llmgate/database"
	"github.com/kbukum/llmgate/database/migration"
	apperrors "github.com/kbukum/llmgate/errors"
	"github.com/kbukum/llmgate/llm"
	"github.com/kbukum/llmgate/logger"
)

func newConversationRouter(t *testing.T) (*gin.Engine, conversation.Store) {
	t.Helper()
	ctx := context.Background()
	db, err := database.Open(ctx, database.Config{Enabled: true, DSN: ":memory:", LogLevel: "silent"}, logger.Nop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if _, err := migration.NewRunner(db.GormDB, logger.Nop()).Add(conversation.Migrations()...).Run(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	store := conversation.NewGormStore(db, logger.Nop())

	r := gin.New()
	g := r.Group("/conversations")
	g.GET("", ListConversations(store))
	g.GET("/search", SearchConversations(store))
	g.GET("/stats", ConversationStats(store))
	g.GET("/:id", GetConversation(store))
	return r, store
}

func seed(t *testing.T, store conversation.Store, provider, user, reply string) string {
	t.Helper()
	ctx := context.Background()
	id, err := store.StartConversation(ctx, provider, "req", nil)
	if err != nil {
		t.Fatalf("StartConversation: %v", err)
	}
	if err := store.LogMessage(ctx, id, llm.RoleUser, user, "", nil); err != nil {
		t.Fatalf("LogMessage: %v", err)
	}
	if err := store.LogMessage(ctx, id, llm.RoleAssistant, reply, "model", nil); err != nil {
		t.Fatalf("LogMessage: %v", err)
	}
	return id
}

func get(r http.Handler, target string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, http.NoBody))
	return rr
}

type listBody struct {
	Data []conversation.Summary `json:"data"`
	Meta Meta                   `json:"meta"`
}

func TestConversations_List(t *testing.T) {
	r, store := newConversationRouter(t)
	seed(t, store, "gpt", "hello", "hi")
	seed(t, store, "claude", "bonjour", "salut")

	rr := get(r, "/conversations?limit=500")
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", rr.Code, rr.Body.String())
	}
	var body listBody
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Data) != 2 || body.Meta.Count != 2 {
		t.Errorf("got %d items (meta %+v), want 2", len(body.Data), body.Meta)
	}
	if body.Meta.Limit != conversation.MaxRecentResults {
		t.Errorf("meta.limit = %d, want clamp to %d", body.Meta.Limit, conversation.MaxRecentResults)
	}
	for _, s := range body.Data {
		if s.MessageCount != 2 {
			t.Errorf("conversation %s message_count = %d, want 2", s.ID, s.MessageCount)
		}
	}
}

func TestConversations_Search(t *testing.T) {
	r, store := newConversationRouter(t)
	seed(t, store, "gpt", "tell me about golang", "it is a language")
	seed(t, store, "claude", "tell me about rust", "another language")

	tests := []struct {
		name   string
		target string
		want   int
	}{
		{"by text", "/conversations/search?q=GOLANG", 1},
		{"by provider", "/conversations/search?provider=claude", 1},
		{"shared text", "/conversations/search?q=language", 2},
		{"date window", "/conversations/search?from=2000-01-01&to=2999-01-01", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := get(r, tt.target)
			if rr.Code != http.StatusOK {
				t.Fatalf("status = %d, want 200 (%s)", rr.Code, rr.Body.String())
			}
			var body listBody
			_ = json.Unmarshal(rr.Body.Bytes(), &body)
			if len(body.Data) != tt.want {
				t.Errorf("got %d results, want %d", len(body.Data), tt.want)
			}
		})
	}
}

func TestConversations_BadQueries(t *testing.T) {
	r, _ := newConversationRouter(t)

	for _, target := range []string{
		"/conversations?limit=abc",
		"/conversations?offset=-1",
		"/conversations/search?from=yesterday",
		"/conversations/search?from=2026-02-01&to=2026-01-01",
	} {
		t.Run(target, func(t *testing.T) {
			rr := get(r, target)
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rr.Code)
			}
			if body := decodeError(t, rr); body.Error.Code != apperrors.ErrCodeInvalidInput {
				t.Errorf("code = %q, want %q", body.Error.Code, apperrors.ErrCodeInvalidInput)
			}
		})
	}
}

func TestConversations_Get(t *testing.T) {
	r, store := newConversationRouter(t)
	id := seed(t, store, "gpt", "What is 2+2?", "4")

	rr := get(r, "/conversations/"+id)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", rr.Code, rr.Body.String())
	}
	var body struct {
		Data conversation.Conversation `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Data.Messages) != 2 || body.Data.Messages[1].Content != "4" {
		t.Errorf("messages = %+v, want user then assistant", body.Data.Messages)
	}

	missing := get(r, "/conversations/33333333-3333-4333-8333-333333333333")
	if missing.Code != http.StatusNotFound {
		t.Errorf("missing status = %d, want 404", missing.Code)
	}
	invalid := get(r, "/conversations/not-a-uuid")
	if invalid.Code != http.StatusUnprocessableEntity {
		t.Errorf("invalid id status = %d, want 422", invalid.Code)
	}
}

func TestConversations_Stats(t *testing.T) {
	r, store := newConversationRouter(t)
	seed(t, store, "gpt", "a", "b")
	seed(t, store, "gpt", "c", "d")
	seed(t, store, "claude", "e", "f")

	rr := get(r, "/conversations/stats")
	var body struct {
		Data conversation.Stats `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Data.ConversationCount != 3 || body.Data.MessageCount != 6 {
		t.Errorf("stats = %+v, want 3 conversations, 6 messages", body.Data)
	}
}
