package webhook

import "errors"

var (
	// ErrMalformedPayload is returned when the body is not a JSON webhook notification
	ErrMalformedPayload = errors.New("malformed webhook payload")

	// ErrMissingEvent is returned when the notification has no event
	ErrMissingEvent = errors.New("missing event")

	// ErrMissingLog is returned when a log-based notification has no log
	ErrMissingLog = errors.New("missing event.log")

	// ErrMissingTransactionHash is returned when the log has no transaction hash
	ErrMissingTransactionHash = errors.New("missing event.log.transactionHash")

	// ErrInvalidSignature is returned when the signature header does not match the body
	ErrInvalidSignature = errors.New("invalid webhook signature")

	// ErrStoreUnavailable is returned when no transfer of a notification could be written
	ErrStoreUnavailable = errors.New("transfer store unavailable")
)
