// Package version reports the llmgate build. Values are stamped at link
// time:
//
//	go build -ldflags "-X github.com/kbukum/llmgate/version.Version=1.2.0 -X github.com/kbukum/llmgate/version.GitCommit=$(git rev-parse --short HEAD)" ./cmd/llmgate
package version
