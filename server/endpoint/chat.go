package endpoint

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/llmgate/chat"
	apperrors "github.com/kbukum/llmgate/errors"
	"github.com/kbukum/llmgate/logger"
	"github.com/kbukum/llmgate/server/middleware"
	"github.com/kbukum/llmgate/sse"
)

// Response headers set on every chat stream.
const (
	HeaderConversationID = "X-Conversation-ID"
	HeaderMessageID      = "X-Message-ID"
)

// ConversationRecorder brackets one chat in the conversation log.
// conversation.Recorder implements it.
type ConversationRecorder interface {
	Start(ctx context.Context, provider, requestID string, metadata map[string]any) string
	End(ctx context.Context, id string)
}

// Chat streams a reply from the provider named in the path as SSE.
//
// Everything that can fail before the first frame (unsupported provider,
// invalid body, unavailable provider, both models failing) is answered as a
// JSON error. Once frames flow, a failure ends the stream without [DONE].
func Chat(orch *chat.Orchestrator, cfg *chat.Config, rec ConversationRecorder, log *logger.Logger) gin.HandlerFunc {
	log = log.WithComponent("chat-endpoint")
	return func(c *gin.Context) {
		provider := c.Param("provider")
		if !cfg.IsSupported(provider) {
			RespondWithError(c, apperrors.UnsupportedProvider(provider, cfg.SupportedProviders))
			return
		}

		var req chat.Request
		if err := c.ShouldBindJSON(&req); err != nil {
			RespondWithError(c, apperrors.Validation("Invalid request body").WithCause(err))
			return
		}
		if appErr := chat.ValidateRequest(&req, cfg); appErr != nil {
			RespondWithError(c, appErr)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.ResponseTimeout)
		defer cancel()

		convID := req.ConversationID
		if convID == "" {
			convID = rec.Start(ctx, provider, middleware.GetRequestID(c), map[string]any{
				"client_ip":  c.ClientIP(),
				"user_agent": c.Request.UserAgent(),
				"messages":   len(req.Messages),
			})
			// Only the request that opened a conversation closes it.
			defer rec.End(context.WithoutCancel(ctx), convID)
		}
		ctx = logger.ContextWithConversationID(ctx, convID)

		stream, err := orch.Run(ctx, req.Conversation(), provider, chat.WithConversationID(convID))
		if err != nil {
			RespondWithError(c, err)
			return
		}
		defer stream.Close()

		frame, ok, err := stream.Next(ctx)
		if err != nil {
			RespondWithError(c, err)
			return
		}

		w, err := sse.NewWriter(c.Writer)
		if err != nil {
			RespondWithError(c, apperrors.Internal(err))
			return
		}
		c.Header(HeaderConversationID, convID)
		c.Header(HeaderMessageID, stream.MessageID())
		w.Start()

		for ok {
			if err := w.WriteFrame(frame); err != nil {
				log.WithContext(ctx).WithError(err).Debug("Client disconnected mid-stream")
				return
			}
			frame, ok, err = stream.Next(ctx)
			if err != nil {
				_ = c.Error(err)
				log.WithContext(ctx).WithError(err).Warn("Stream ended without [DONE]", logger.Fields(
					logger.FieldProvider, provider,
					logger.FieldMessageID, stream.MessageID(),
				))
				return
			}
		}
	}
}
