// Package chat ties the provider adapters into one chat service.
//
// A Registry resolves provider names to lazily built adapters. The
// Orchestrator streams a conversation through the provider's default model
// and retries once on its fallback model, yielding SSE wire frames. The
// HealthProbe asks each provider a fixed arithmetic question.
//
//	reg := chat.NewRegistry(cfg)
//	orch := chat.NewOrchestrator(cfg, reg)
//	stream, err := orch.Run(ctx, conv, "gpt")
//	if err != nil {
//		return err
//	}
//	defer stream.Close()
//	for {
//		frame, ok, err := stream.Next(ctx)
//		if err != nil || !ok {
//			return err
//		}
//		w.WriteFrame(frame)
//	}
package chat
