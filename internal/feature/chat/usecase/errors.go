// Package usecase implements the business logic for the chat feature.
package usecase

import "errors"

// ErrEmptyReply is returned when an agent answers without any text.
var ErrEmptyReply = errors.New("agent returned an empty reply")
