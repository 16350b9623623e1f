// Package numbering formats sequential invoice numbers scoped to the Indian
// fiscal year (April 1 – March 31).
package numbering

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FiscalYearStart returns the calendar year in which the fiscal year
// containing t starts: April–December belong to the year itself,
// January–March to the previous one.
func FiscalYearStart(t time.Time) int {
	if t.Month() >= time.April {
		return t.Year()
	}
	return t.Year() - 1
}

// FiscalYearCode returns the two 2-digit boundary years concatenated,
// e.g. fiscal year starting April 2024 -> "2425".
func FiscalYearCode(t time.Time) string {
	start := FiscalYearStart(t)
	return fmt.Sprintf("%02d%02d", start%100, (start+1)%100)
}

// Format renders an invoice number, e.g. Format("INV", t, 7) -> "INV-2425-0007".
// The sequence is zero-padded to 4 digits; sequences past 9999 keep all their
// digits rather than wrapping.
func Format(prefix string, t time.Time, seq int64) string {
	return fmt.Sprintf("%s-%s-%04d", prefix, FiscalYearCode(t), seq)
}

// Seq extracts the sequence from a formatted invoice number, e.g.
// "INV-2425-0007" -> 7. ok is false when the trailing segment is not a
// positive number.
func Seq(number string) (int64, bool) {
	i := strings.LastIndex(number, "-")
	if i < 0 || i == len(number)-1 {
		return 0, false
	}
	seq, err := strconv.ParseInt(number[i+1:], 10, 64)
	if err != nil || seq <= 0 {
		return 0, false
	}
	return seq, true
}
