package httpclient

import "net/http"

// AuthConfig is a vendor credential sent as one request header.
type AuthConfig struct {
	Header string
	Value  string
}

// BearerAuth sends "Authorization: Bearer <token>" (OpenAI, Groq).
func BearerAuth(token string) *AuthConfig {
	return &AuthConfig{Header: "Authorization", Value: "Bearer " + token}
}

// APIKeyAuthHeader sends the raw key under header (x-api-key for Anthropic,
// x-goog-api-key for Gemini).
func APIKeyAuthHeader(key, header string) *AuthConfig {
	return &AuthConfig{Header: header, Value: key}
}

func (a *AuthConfig) apply(req *http.Request) {
	if a == nil || a.Header == "" {
		return
	}
	req.Header.Set(a.Header, a.Value)
}
