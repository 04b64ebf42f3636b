package endpoint

import (
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/llmgate/conversation"
	apperrors "github.com/kbukum/llmgate/errors"
	"github.com/kbukum/llmgate/validation"
)

// ListConversations serves GET /conversations?limit&offset, newest first.
func ListConversations(store conversation.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, offset, err := pagination(c)
		if err != nil {
			RespondWithError(c, err)
			return
		}
		items, err := store.RecentConversations(c.Request.Context(), limit, offset)
		if err != nil {
			RespondWithError(c, err)
			return
		}
		RespondOKWithMeta(c, items, &Meta{
			Limit:  conversation.ClampLimit(limit, conversation.MaxRecentResults),
			Offset: offset,
			Count:  len(items),
		})
	}
}

// SearchConversations serves GET /conversations/search?q&provider&from&to.
// from and to accept RFC 3339 timestamps or plain dates.
func SearchConversations(store conversation.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, offset, err := pagination(c)
		if err != nil {
			RespondWithError(c, err)
			return
		}
		from, err := parseTime("from", c.Query("from"))
		if err != nil {
			RespondWithError(c, err)
			return
		}
		to, err := parseTime("to", c.Query("to"))
		if err != nil {
			RespondWithError(c, err)
			return
		}
		if !from.IsZero() && !to.IsZero() && to.Before(from) {
			RespondWithError(c, apperrors.InvalidInput("to", "to must not be before from"))
			return
		}

		items, err := store.SearchConversations(c.Request.Context(), conversation.SearchQuery{
			Text:     strings.TrimSpace(c.Query("q")),
			Provider: c.Query("provider"),
			From:     from,
			To:       to,
			Limit:    limit,
			Offset:   offset,
		})
		if err != nil {
			RespondWithError(c, err)
			return
		}
		RespondOKWithMeta(c, items, &Meta{
			Limit:  conversation.ClampLimit(limit, conversation.MaxSearchResults),
			Offset: offset,
			Count:  len(items),
		})
	}
}

// ConversationStats serves GET /conversations/stats.
func ConversationStats(store conversation.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := store.Stats(c.Request.Context())
		if err != nil {
			RespondWithError(c, err)
			return
		}
		RespondOK(c, stats)
	}
}

// GetConversation serves GET /conversations/:id with its messages.
func GetConversation(store conversation.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := validation.ValidateUUID("id", c.Param("id"))
		if err != nil {
			RespondWithError(c, err)
			return
		}
		conv, err := store.GetConversation(c.Request.Context(), id.String())
		if err != nil {
			RespondWithError(c, err)
			return
		}
		RespondOK(c, conv)
	}
}

func pagination(c *gin.Context) (limit, offset int, err error) {
	if limit, err = intQuery(c, "limit"); err != nil {
		return 0, 0, err
	}
	if offset, err = intQuery(c, "offset"); err != nil {
		return 0, 0, err
	}
	return limit, offset, nil
}

func intQuery(c *gin.Context, name string) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, apperrors.InvalidInput(name, name+" must be a non-negative integer")
	}
	return n, nil
}

func parseTime(name, raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, apperrors.InvalidInput(name, name+" must be an RFC 3339 timestamp or a YYYY-MM-DD date")
}
