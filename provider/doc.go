// Package provider implements a generic provider registry using Go generics
// for swappable backends that are built lazily on first use.
//
// Registry[T] maps names to factories and caches one instance per name.
// GetOrInit is safe for concurrent use: construction for a name happens at
// most once on success, and failures are never cached.
//
// Iterator[T] is the pull-based stream contract shared by streaming providers.
//
// # Usage
//
//	reg := provider.NewRegistry[*llm.Adapter]()
//	reg.RegisterFactory("gpt", func() (*llm.Adapter, error) { return llm.New(settings) })
//	a, err := reg.GetOrInit("gpt")
package provider
