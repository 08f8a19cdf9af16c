package errors

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrInvalid       = errors.New("invalid")
	ErrTooMany       = errors.New("too many requests")
	ErrInternal      = errors.New("internal")
	ErrTimeout       = errors.New("store operation timed out")
	ErrDuplicateDate = errors.New("an entry for this date already exists")
	ErrInvalidRange  = errors.New("start date cannot be after the end date")
	ErrEmptyRange    = errors.New("no entries found in the selected date range")
	ErrExportBusy    = errors.New("an export is already in progress")
	ErrRenderCapture = errors.New("render capture failed")
)

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsDuplicateDate(err error) bool {
	return errors.Is(err, ErrDuplicateDate)
}
