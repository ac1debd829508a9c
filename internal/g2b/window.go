package g2b

import (
	"time"

	"github.com/me/narabid/pkg/model"
)

// kstOffset is the service's civil-calendar offset from UTC.
const kstOffset = 9 * time.Hour

// DateWindow is an inclusive range of calendar dates in KST. From and To
// hold midnight UTC of the civil date and carry no zone meaning.
type DateWindow struct {
	From time.Time
	To   time.Time
}

// ResolveWindow computes the lookback window for kind ending on the KST
// calendar date of now. The date is read from now shifted by +9h in UTC so
// the result does not depend on the host time zone.
func ResolveWindow(now time.Time, kind model.Kind) DateWindow {
	shifted := now.UTC().Add(kstOffset)
	to := time.Date(shifted.Year(), shifted.Month(), shifted.Day(), 0, 0, 0, 0, time.UTC)
	return DateWindow{
		From: to.AddDate(0, 0, -kind.LookbackDays()),
		To:   to,
	}
}

// Days returns the span between From and To in whole days.
func (w DateWindow) Days() int {
	return int(w.To.Sub(w.From).Hours() / 24)
}

// FromDate returns From as YYYYMMDD.
func (w DateWindow) FromDate() string { return w.From.Format("20060102") }

// ToDate returns To as YYYYMMDD.
func (w DateWindow) ToDate() string { return w.To.Format("20060102") }

// FromDateTime returns From at 00:00 as YYYYMMDDHHMM.
func (w DateWindow) FromDateTime() string { return w.FromDate() + "0000" }

// ToDateTime returns To at 23:59 as YYYYMMDDHHMM.
func (w DateWindow) ToDateTime() string { return w.ToDate() + "2359" }

// Label renders the window for display, e.g. "2024-01-01 ~ 2024-01-30".
func (w DateWindow) Label() string {
	return w.From.Format("2006-01-02") + " ~ " + w.To.Format("2006-01-02")
}
