package constants

// Upstream provider error codes

// Credential-related errors
const (
	ErrCodeMissingCredentials   = "MISSING_CREDENTIALS"
	ErrCodeAuthenticationFailed = "AUTHENTICATION_FAILED"
	ErrCodeMalformedToken       = "MALFORMED_TOKEN_RESPONSE"
)

// Fetch-related errors
const (
	ErrCodeRateLimited       = "RATE_LIMITED"
	ErrCodeRetriesExhausted  = "RATE_LIMIT_RETRIES_EXHAUSTED"
	ErrCodeNetworkError      = "NETWORK_ERROR"
	ErrCodeUpstreamHTTPError = "UPSTREAM_HTTP_ERROR"
	ErrCodeListingNotFound   = "LISTING_NOT_FOUND"
	ErrCodeMalformedResponse = "MALFORMED_RESPONSE"
)

// Per-record and run-level errors
const (
	ErrCodeInvalidDataFormat = "INVALID_DATA_FORMAT"
	ErrCodeMissingListingID  = "MISSING_LISTING_ID"
	ErrCodeUpsertFailed      = "UPSERT_FAILED"
	ErrCodeArchiveFailed     = "ARCHIVE_FAILED"
	ErrCodeSyncLogFailed     = "SYNC_LOG_FAILED"
)

// DataProviderErrorMessages maps codes to human-readable messages.
var DataProviderErrorMessages = map[string]string{
	ErrCodeMissingCredentials:   "Guesty client credentials are not configured",
	ErrCodeAuthenticationFailed: "Authentication with Guesty failed",
	ErrCodeMalformedToken:       "Guesty token response did not contain an access token",

	ErrCodeRateLimited:       "Rate limit exceeded. Please try again later",
	ErrCodeRetriesExhausted:  "Guesty kept rate limiting after the maximum number of retries",
	ErrCodeNetworkError:      "Unable to connect to Guesty",
	ErrCodeUpstreamHTTPError: "Guesty returned an unexpected HTTP status",
	ErrCodeListingNotFound:   "The requested listing was not found in Guesty",
	ErrCodeMalformedResponse: "Guesty returned a response without a results array",

	ErrCodeInvalidDataFormat: "The listing record is not a JSON object",
	ErrCodeMissingListingID:  "The listing record has no identifier",
	ErrCodeUpsertFailed:      "The listing could not be saved",
	ErrCodeArchiveFailed:     "Stale listings could not be archived",
	ErrCodeSyncLogFailed:     "The sync run could not be logged",
}

// GetErrorMessage returns the human-readable message for an error code
func GetErrorMessage(code string) string {
	if msg, exists := DataProviderErrorMessages[code]; exists {
		return msg
	}
	return "An unknown error occurred"
}
