// Package clock derives the Beijing-calendar "today" used by same-day Minute
// and Trade requests, confirmed against the reference implementation to use
// the true UTC+8 offset rather than a days/365 approximation.
package clock

import "time"

// Beijing is the fixed UTC+8 offset this protocol's wall-clock fields use.
var Beijing = time.FixedZone("CST", 8*3600)

// Now returns the current time in the Beijing offset.
func Now() time.Time {
	return time.Now().In(Beijing)
}

// TodayYYYYMMDD returns today's date, in the Beijing calendar, as a
// YYYYMMDD-formatted string and as its numeric u32 equivalent.
func TodayYYYYMMDD() (string, uint32) {
	return FormatYYYYMMDD(Now())
}

// FormatYYYYMMDD formats t (already in the desired zone) as both the
// YYYYMMDD string and its numeric u32 equivalent.
func FormatYYYYMMDD(t time.Time) (string, uint32) {
	s := t.Format("20060102")
	n := uint32(t.Year())*10000 + uint32(t.Month())*100 + uint32(t.Day())
	return s, n
}
