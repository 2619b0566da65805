package domain

import "errors"

var (
	ErrReportNotFound = errors.New("report not found")
	ErrNoLocation     = errors.New("no location found in description")
)
