package errors

import "fmt"

var (
	ErrWorkerPanic = fmt.Errorf("worker panic")

	ErrInvalidRequest   = fmt.Errorf("invalid request")
	ErrBanned           = fmt.Errorf("user is banned")
	ErrSessionUnknown   = fmt.Errorf("user not found")
	ErrForbidden        = fmt.Errorf("forbidden")
	ErrSignatureInvalid = fmt.Errorf("invalid webhook signature")
	ErrMalformedWebhook = fmt.Errorf("malformed webhook payload")
	ErrBrokerFailure    = fmt.Errorf("broker failure")
	ErrUnauthorized     = fmt.Errorf("unauthorized")
	ErrSchedulerClosed  = fmt.Errorf("scheduler closed")
)
