package domain

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrHostelExists       = errors.New("hostel already exists")
	ErrHostelIDTaken      = errors.New("hostel id already taken")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSelectionClosed    = errors.New("meal selection is closed for this date")
	ErrReportNotOpen      = errors.New("report generation is not open for this date")
	ErrPassesIssued       = errors.New("passes already issued for this date")
	ErrPassSpaceExhausted = errors.New("no pass codes left for this meal")
	ErrSelfRemoval        = errors.New("cannot remove yourself")
)
