package models

import "time"

// DateSource records where a travel date was extracted from.
type DateSource string

const (
	SourceAttachmentName DateSource = "attachment_name"
	SourceEmailBody      DateSource = "email_body"
	SourceEmailSentDate  DateSource = "email_sent_date"
	SourceNone           DateSource = "none"
)

// ResolvedDate is a travel date plus its provenance. The time component is
// always fixed to midday so timezone rounding cannot shift the calendar day.
type ResolvedDate struct {
	Date   time.Time
	Source DateSource
}

// Found reports whether any date was resolved.
func (r ResolvedDate) Found() bool {
	return r.Source != SourceNone
}

// Midday returns y/m/d at 12:00 local time.
func Midday(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 12, 0, 0, 0, time.Local)
}

// MiddayOf collapses t to midday on its own calendar day.
func MiddayOf(t time.Time) time.Time {
	return Midday(t.Year(), t.Month(), t.Day())
}
