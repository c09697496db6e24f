package store

import "errors"

var (
	ErrMalformedInput   = errors.New("malformed base64 payload")
	ErrBufferOverflow   = errors.New("data exceeds buffer capacity")
	ErrPathClamped      = errors.New("path truncated to fit its buffer")
	ErrBackingStoreIO   = errors.New("backing store i/o failure")
	ErrStoreUnavailable = errors.New("host store unavailable")
)
