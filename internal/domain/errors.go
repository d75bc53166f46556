package domain

import "errors"

var (
	ErrMemberNotFound  = errors.New("member not found")
	ErrAssetNotFound   = errors.New("asset not found")
	ErrNotImage        = errors.New("not an image")
	ErrTooLarge        = errors.New("file exceeds size limit")
	ErrMaintenanceBusy = errors.New("a maintenance run is already in progress")
)
