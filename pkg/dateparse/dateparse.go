// Package dateparse resolves the travel date of a receipt. Three tiers, first
// match wins: a date embedded in the attachment filename, a date spelled out
// in the email text, and finally the email's received timestamp.
package dateparse

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/yurifrl/ticketfiler/pkg/models"
)

var monthsByAbbrev = map[string]time.Month{
	"Jan": time.January,
	"Feb": time.February,
	"Mar": time.March,
	"Apr": time.April,
	"May": time.May,
	"Jun": time.June,
	"Jul": time.July,
	"Aug": time.August,
	"Sep": time.September,
	"Oct": time.October,
	"Nov": time.November,
	"Dec": time.December,
}

const monthAlt = `Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec`

var (
	// e.g. "ticket_07_Feb_0900_receipt.pdf", "boarding 7-feb-0930.pdf"
	filenameDate = regexp.MustCompile(`(?i)(\d{1,2})[ _-](` + monthAlt + `)[ _-]`)
	// e.g. "Sat, Feb 21, 2026" — explicit year, no heuristic needed
	textLongDate = regexp.MustCompile(`(?i)\b(?:Mon|Tue|Wed|Thu|Fri|Sat|Sun),? (` + monthAlt + `) (\d{1,2}), (\d{4})\b`)
	// e.g. "21 Feb 2026"
	textShortDate = regexp.MustCompile(`(?i)\b(\d{1,2}) (` + monthAlt + `) (\d{4})\b`)
	whitespace    = regexp.MustCompile(`\s+`)
)

// Resolve extracts a travel date for a receipt, falling back to the message's
// received timestamp when neither the filename nor the text yields one.
func Resolve(filename, text string, receivedAt time.Time) models.ResolvedDate {
	if r := resolve(filename, text, receivedAt); r.Found() {
		return r
	}
	return models.ResolvedDate{Date: models.MiddayOf(receivedAt), Source: models.SourceEmailSentDate}
}

// ResolveStrict is Resolve without the received-timestamp fallback. Backfill
// uses it: defaulting to the received date could misfile a receipt into the
// wrong target month, so no parse means skip.
func ResolveStrict(filename, text string, receivedAt time.Time) models.ResolvedDate {
	return resolve(filename, text, receivedAt)
}

func resolve(filename, text string, receivedAt time.Time) models.ResolvedDate {
	if d, ok := fromFilename(filename, receivedAt); ok {
		return models.ResolvedDate{Date: d, Source: models.SourceAttachmentName}
	}
	if d, ok := fromText(text); ok {
		return models.ResolvedDate{Date: d, Source: models.SourceEmailBody}
	}
	return models.ResolvedDate{Source: models.SourceNone}
}

// fromFilename looks for "<day><sep><mon><sep>" in the attachment name. The
// year is taken from the message's received year, corrected when the booking
// straddles a year boundary: received in December with a January travel month
// means next year, received in January with a December travel month means the
// year before. The heuristic assumes bookings are made close to the travel
// date; a months-long gap in the wrong direction misinfers the year.
func fromFilename(filename string, receivedAt time.Time) (time.Time, bool) {
	m := filenameDate.FindStringSubmatch(filename)
	if m == nil {
		return time.Time{}, false
	}
	day, err := strconv.Atoi(m[1])
	if err != nil || day < 1 || day > 31 {
		return time.Time{}, false
	}
	month, ok := monthsByAbbrev[capitalize(m[2])]
	if !ok {
		return time.Time{}, false
	}

	year := receivedAt.Year()
	switch {
	case receivedAt.Month() == time.December && month == time.January:
		year++
	case receivedAt.Month() == time.January && month == time.December:
		year--
	}
	return models.Midday(year, month, day), true
}

// fromText searches whitespace-collapsed text for "Www, Mon D, YYYY" first,
// then "D Mon YYYY". A match of the first pattern beats any match of the
// second; within a pattern the earliest match in the text wins.
func fromText(text string) (time.Time, bool) {
	collapsed := whitespace.ReplaceAllString(text, " ")

	if m := textLongDate.FindStringSubmatch(collapsed); m != nil {
		return buildDate(m[2], m[1], m[3])
	}
	if m := textShortDate.FindStringSubmatch(collapsed); m != nil {
		return buildDate(m[1], m[2], m[3])
	}
	return time.Time{}, false
}

func buildDate(dayStr, monStr, yearStr string) (time.Time, bool) {
	day, err := strconv.Atoi(dayStr)
	if err != nil || day < 1 || day > 31 {
		return time.Time{}, false
	}
	month, ok := monthsByAbbrev[capitalize(monStr)]
	if !ok {
		return time.Time{}, false
	}
	year, err := strconv.Atoi(yearStr)
	if err != nil {
		return time.Time{}, false
	}
	return models.Midday(year, month, day), true
}

// capitalize normalizes a month abbreviation to "Xxx" form for table lookup.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + strings.ToLower(s[1:])
}
