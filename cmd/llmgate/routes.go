package main

import (
	"github.com/gin-gonic/gin"

	"github.com/kbukum/llmgate/chat"
	"github.com/kbukum/llmgate/conversation"
	"github.com/kbukum/llmgate/logger"
	"github.com/kbukum/llmgate/server/endpoint"
)

// registerRoutes mounts the chat, provider health and conversation APIs.
func registerRoutes(r gin.IRouter, cfg *chat.Config, store conversation.Store, obs chat.Observer, log *logger.Logger) {
	registry := chat.NewRegistry(cfg)
	recorder := conversation.NewRecorder(store, log)
	orch := chat.NewOrchestrator(cfg, registry,
		chat.WithLogger(log),
		chat.WithTurnLogger(recorder),
		chat.WithObserver(obs),
	)
	probe := chat.NewHealthProbe(registry, chat.WithLogger(log), chat.WithObserver(obs))

	r.POST("/chat/:provider", endpoint.Chat(orch, cfg, recorder, log))
	r.GET("/health", endpoint.Health())
	r.GET("/health/:provider", endpoint.ProviderHealthCheck(probe, cfg))

	conversations := r.Group("/conversations")
	conversations.GET("", endpoint.ListConversations(store))
	conversations.GET("/search", endpoint.SearchConversations(store))
	conversations.GET("/stats", endpoint.ConversationStats(store))
	conversations.GET("/:id", endpoint.GetConversation(store))
}
