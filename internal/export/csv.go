// Package export renders the admin's current working set as a CSV document.
// Rendering is pure and synchronous: it has no side effects beyond producing
// text, and emits rows in exactly the order it is given (i.e. the currently
// displayed, possibly filtered, order). Delivering the bytes as a download
// is the HTTP layer's concern.
package export

import (
	"encoding/csv"
	"strconv"
	"strings"
	"time"

	"github.com/https-aaryannn/anonbox/internal/domain"
)

// MIMEType is the content type of the produced document.
const MIMEType = "text/csv"

// isoMillis is the ISO-8601 timestamp layout used in export rows
// (always UTC, millisecond precision, literal Z).
const isoMillis = "2006-01-02T15:04:05.000Z"

// header is the fixed column order of the export.
var header = []string{"ID", "Content", "Date", "Sentiment Score", "Tags"}

// Filename returns the download filename for an export triggered at `now`,
// following the confessions-<epoch-millis>.csv pattern.
func Filename(now time.Time) string {
	return "confessions-" + strconv.FormatInt(now.UnixMilli(), 10) + ".csv"
}

// CSV renders the records as RFC 4180 CSV text: a header row followed by one
// row per record in input order. Content is quoted with internal quotes
// doubled; the date is ISO-8601; sentiment score and tags render as empty
// strings when the record carries no annotation (tags join with ";").
func CSV(records []domain.Confession) (string, error) {
	var b strings.Builder
	w := csv.NewWriter(&b)

	if err := w.Write(header); err != nil {
		return "", err
	}
	for _, c := range records {
		score := ""
		tags := ""
		if c.AIAnalysis != nil {
			score = strconv.Itoa(c.AIAnalysis.SentimentScore)
			tags = strings.Join(c.AIAnalysis.Tags, ";")
		}
		row := []string{
			c.ID,
			c.Content,
			c.CreatedTime().Format(isoMillis),
			score,
			tags,
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", err
	}
	return b.String(), nil
}
