package errorz

import "errors"

var (
	ErrEmptyTrackingCode = errors.New("empty tracking code")
	ErrInvalidPayload    = errors.New("invalid payload")
	ErrRenderNotFound    = errors.New("render not found")
	ErrNoBaseURL         = errors.New("no usable base url")
)
