package notification

import "errors"

var (
	ErrUnknownKind     = errors.New("unknown notification kind")
	ErrMissingReceiver = errors.New("notification has no recipient")
	ErrUndecodable     = errors.New("notification payload is undecodable")
)
