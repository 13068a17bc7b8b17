package attendance

import "errors"

var (
	ErrInvalidPeriod = errors.New("period end must not be before start")
	ErrPeriodTooLong = errors.New("period must not exceed 366 days")
)
