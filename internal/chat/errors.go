package chat

import "strings"

// Failure categories for user-facing chat errors. Operators can tell
// credential, quota, and model-configuration problems apart without log
// access; raw upstream payloads are never exposed.
const (
	FailureCodeCredentials = "llm_credentials"
	FailureCodeQuota       = "llm_quota"
	FailureCodeModelConfig = "llm_model_config"
	FailureCodeGeneric     = "llm_failed"
)

// ClassifyFailure maps an upstream model error to a failure code and a
// safe user-facing message.
func ClassifyFailure(err error) (code string, message string) {
	if err == nil {
		return FailureCodeGeneric, "Failed to generate response. Please try again."
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "api key") || strings.Contains(msg, "invalid_api_key") || strings.Contains(msg, "incorrect api key") || strings.Contains(msg, "401"):
		return FailureCodeCredentials, "OpenAI API configuration error. Please check your API keys."
	case strings.Contains(msg, "quota") || strings.Contains(msg, "billing") || strings.Contains(msg, "insufficient_quota"):
		return FailureCodeQuota, "OpenAI API quota exceeded. Please check your billing."
	case strings.Contains(msg, "model") || strings.Contains(msg, "deployment"):
		return FailureCodeModelConfig, "Model configuration error. Please check your deployment names."
	default:
		return FailureCodeGeneric, "Failed to generate response. Please try again."
	}
}
