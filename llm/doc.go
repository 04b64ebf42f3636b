// Package llm provides a config-driven streaming chat adapter over the
// llmgate HTTP client.
//
// Vendors plug in through the [Dialect] interface, the way database/sql
// works with drivers. A dialect shapes a [Conversation] into a [Payload],
// builds the vendor request and decodes stream events into [Chunk] values.
// The [Adapter] owns one httpclient.Client per provider and drives the
// dialect for streaming generation and health probes.
//
// # Usage
//
// Import a dialect package for side-effect registration, then build an
// adapter from [Settings]:
//
//	import (
//	    "github.com/kbukum/llmgate/llm"
//	    _ "github.com/kbukum/llmgate/llm/openai"
//	)
//
//	adapter, err := llm.New(llm.Settings{
//	    Name:         "gpt",
//	    Dialect:      "openai",
//	    APIKey:       os.Getenv("OPENAI_API_KEY"),
//	    DefaultModel: "gpt-4o",
//	})
//
//	payload := adapter.FormatMessages(conv, systemPrompt)
//	it, err := adapter.Stream(ctx, payload, "gpt-4o", messageID)
//	defer it.Close()
//	for {
//	    chunk, ok, err := it.Next(ctx)
//	    ...
//	}
//
// To skip the global registry, pass a dialect directly:
//
//	adapter, err := llm.NewWithDialect(myDialect, settings)
package llm
