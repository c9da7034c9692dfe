package model

import "errors"

var (
	ErrChatNotFound     = errors.New("chat not found")
	ErrDocumentNotFound = errors.New("document not found")
	ErrUserNotFound     = errors.New("user not found")
	ErrEmailTaken       = errors.New("email already registered")
	ErrUnsupportedType  = errors.New("unsupported document type")
	ErrPersistence      = errors.New("persistence failure")
	ErrUpstream         = errors.New("generation upstream failure")
)
