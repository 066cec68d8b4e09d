package redis

import "errors"

var (
	ErrFailedToParseConnectionURL = errors.New("failed to parse redis connection url")
	ErrRedisNotReady              = errors.New("redis connection is not ready")
	ErrHealthcheckFailed          = errors.New("redis healthcheck failed")
)
