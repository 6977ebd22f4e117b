package utils

import "errors"

var (
	ErrInvalidPage       = errors.New("invalid page parameter")
	ErrInvalidPageSize   = errors.New("invalid page size parameter")
	ErrInvalidInput      = errors.New("invalid input")
	ErrDatabaseError     = errors.New("database error")
	ErrInvalidCoordinate = errors.New("invalid coordinate")
	ErrInvalidRating     = errors.New("rating must be between 1 and 5")

	ErrMuseumNotFound  = errors.New("museum not found")
	ErrDraftNotFound   = errors.New("draft not found")
	ErrCheckinNotFound = errors.New("checkin record not found")
	ErrForbidden       = errors.New("operation not permitted for this user")

	ErrIllegalTransition  = errors.New("illegal audit status transition")
	ErrRemarkRequired     = errors.New("audit remark is required")
	ErrInvalidAuditStatus = errors.New("invalid audit status")

	ErrAchievementNotFound = errors.New("achievement not found")
	ErrAchievementLocked   = errors.New("achievement not yet unlocked")
)
