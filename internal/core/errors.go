package core

// Error codes surfaced to clients as protocol error frames. The
// coordinator itself never rejects an operation; these cover boundary
// validation and throttling in the transport.
const (
	ErrCodeBadRequest     = "bad_request"
	ErrCodeInvalidMessage = "invalid_message"
	ErrCodeRateLimited    = "rate_limited"
)
