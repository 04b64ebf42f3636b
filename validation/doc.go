// Package validation validates inbound request data and reports failures as
// VALIDATION_ERROR AppErrors with per-field details.
//
// Struct tags are checked with go-playground/validator:
//
//	type ChatRequest struct {
//	    Messages []Message `json:"messages" validate:"required,min=1,dive"`
//	}
//	err := validation.Validate(req)
//
// Limits that come from configuration use the fluent Validator:
//
//	v := validation.New()
//	v.MaxLength("messages[0].content", content, 24000)
//	err := v.Validate()
package validation
