package constants

// Registry Error Codes
// These constants define specific error scenarios for the external facility registry

const (
	ErrCodeInvalidToken   = "INVALID_TOKEN"
	ErrCodeNetworkError   = "NETWORK_ERROR"
	ErrCodeRateLimited    = "RATE_LIMITED"
	ErrCodeBadResponse    = "BAD_RESPONSE"
	ErrCodeNotFound       = "NOT_FOUND"
	ErrCodeServerError    = "SERVER_ERROR"
	ErrCodeInvalidRequest = "INVALID_REQUEST"
)

var RegistryErrorMessages = map[string]string{
	ErrCodeInvalidToken:   "The registry access token is invalid or has been revoked",
	ErrCodeNetworkError:   "Unable to reach the facility registry",
	ErrCodeRateLimited:    "Registry rate limit exceeded. Please try again later",
	ErrCodeBadResponse:    "The registry returned a response that could not be decoded",
	ErrCodeNotFound:       "The requested registry resource was not found",
	ErrCodeServerError:    "The facility registry reported an internal error",
	ErrCodeInvalidRequest: "The registry rejected the request",
}

// GetErrorMessage returns the human-readable message for an error code
func GetErrorMessage(code string) string {
	if msg, exists := RegistryErrorMessages[code]; exists {
		return msg
	}
	return "An unknown error occurred"
}
