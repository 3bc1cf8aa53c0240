package domain

import "errors"

var (
	ErrSnapshotTimeout = errors.New("snapshot fetch timed out")
	ErrUnknownCategory = errors.New("unknown market category")
	ErrContentNotFound = errors.New("content not found")
	ErrQuoteNotFound   = errors.New("quote currency not found in rate table")
)
