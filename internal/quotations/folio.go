package quotations

import (
	"fmt"
	"time"
)

const folioPrefix = "COT"

// FormatFolio renders the human-facing quotation number for a given day
// and per-day sequence, e.g. COT-20260828-0001.
func FormatFolio(date time.Time, seq int64) string {
	return fmt.Sprintf("%s-%s-%04d", folioPrefix, date.Format("20060102"), seq)
}
