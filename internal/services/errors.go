package services

import "errors"

var (
	ErrNotFound          = errors.New("record not found")
	ErrInvalidTransition = errors.New("status transition not allowed")
	ErrNotLatestRecord   = errors.New("only the latest record of an active group may carry this action")
	ErrHearingLimit      = errors.New("hearing limit reached for this case")
	ErrEmptyDraft        = errors.New("request draft is empty")
)
