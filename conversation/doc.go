// Package conversation persists chat conversations and their turns.
//
// GormStore keeps them in the database opened by package database; Noop
// stands in when persistence is disabled. Recorder is the best-effort face
// the request path uses: it never fails a chat because logging failed.
package conversation
