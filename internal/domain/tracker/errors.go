package tracker

import "errors"

var (
	ErrDuplicateWeek = errors.New("week with this start date already exists")
	ErrWeekNotFound  = errors.New("week not found")
	ErrItemNotFound  = errors.New("weekly item not found")
	ErrCheckNotFound = errors.New("daily check not found")
	ErrInvalidInput  = errors.New("invalid input")
)
