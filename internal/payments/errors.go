package payments

import "errors"

var (
	// ErrInvalidSignature means the confirm callback carried a signature that
	// does not match the server-side HMAC. Treated as tampering: logged as a
	// security event and never retried.
	ErrInvalidSignature = errors.New("invalid signature")
	// ErrTransactionNotFound covers both an unknown transaction id and an
	// email that does not match the stored record, so callers cannot probe
	// which one failed.
	ErrTransactionNotFound = errors.New("transaction not found")
	// ErrGateway is a transient failure talking to the payment backend after
	// retries were exhausted.
	ErrGateway = errors.New("payment gateway unavailable")
)
