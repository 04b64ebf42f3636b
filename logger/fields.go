package logger

// Standard field key constants for structured logging.
const (
	FieldComponent      = "component"
	FieldTraceID        = "trace_id"
	FieldSpanID         = "span_id"
	FieldRequestID      = "request_id"
	FieldConversationID = "conversation_id"
	FieldMessageID      = "message_id"
	FieldProvider       = "provider"
	FieldModel          = "model"
	FieldAttempt        = "attempt"
	FieldChunks         = "chunks"
	FieldStatus         = "status"
	FieldError          = "error"
	FieldDuration       = "duration_ms"
)

// Fields builds a map[string]interface{} from alternating key-value pairs.
//
//	logger.Info("done", logger.Fields("op", "save", "id", 42))
func Fields(kvs ...interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(kvs)/2)
	for i := 0; i < len(kvs)-1; i += 2 {
		if key, ok := kvs[i].(string); ok {
			m[key] = kvs[i+1]
		}
	}
	return m
}
