package handlers

const (
	ErrInvalidJSON         = "Invalid JSON body"
	ErrInvalidID           = "Invalid ID"
	ErrUnauthorized        = "Unauthorized"
	ErrInternalServerError = "Internal server error"
	ErrStoryUnavailableMsg = "Story generation is unavailable right now, please try again"
	ErrInvalidShareLinkMsg = "invalid share link"
	ErrTooManyRequests     = "Too many requests, please slow down"
	maxRequestBodyBytes    = 1 << 20
	maxBackupBodyBytes     = 32 << 20
)
