package model

import "errors"

var (
	ErrNotEnrolled          = errors.New("user is not enrolled in this path")
	ErrInvalidCourseIndex   = errors.New("course index out of range")
	ErrInvalidProgressRange = errors.New("progress must be between 0 and 100")
	ErrInvalidCategory      = errors.New("invalid path category")
	ErrInvalidDifficulty    = errors.New("invalid path difficulty")
	ErrInvalidRating        = errors.New("rating must be between 1 and 5")
)
