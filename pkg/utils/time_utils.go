package utils

import "time"

// Museum-local time (CST, +08:00). Calendar windows for achievements are cut
// in this zone, not UTC.
var localLoc = func() *time.Location {
	if loc, err := time.LoadLocation("Asia/Shanghai"); err == nil {
		return loc
	}
	return time.FixedZone("CST", 8*3600)
}()

// Use explicit "seconds" variant for DB storage (recommended)
func NowUnixSeconds() int64 { return time.Now().Unix() }

func NowUnixMillis() int64 { return time.Now().UnixMilli() }

// Convert an epoch value in **seconds** to local time.
// Returns zero time if t<=0 to let callers decide how to render.
func FromUnixSecondsLocal(t int64) time.Time {
	if t <= 0 {
		return time.Time{}
	}
	return time.Unix(t, 0).In(localLoc)
}

// MonthStartUnix returns the first instant of the calendar month containing t
// (epoch seconds in, epoch seconds out).
func MonthStartUnix(t int64) int64 {
	lt := time.Unix(t, 0).In(localLoc)
	return time.Date(lt.Year(), lt.Month(), 1, 0, 0, 0, 0, localLoc).Unix()
}

// YearStartUnix returns the first instant of the calendar year containing t.
func YearStartUnix(t int64) int64 {
	lt := time.Unix(t, 0).In(localLoc)
	return time.Date(lt.Year(), 1, 1, 0, 0, 0, 0, localLoc).Unix()
}

// MinutesOfDayLocal returns minutes since local midnight for an epoch second
// value. Used to compare a visit instant against opening hours.
func MinutesOfDayLocal(t int64) int {
	lt := time.Unix(t, 0).In(localLoc)
	return lt.Hour()*60 + lt.Minute()
}

// Format helpers
func FormatRFC3339Local(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.In(localLoc).Format(time.RFC3339)
}
