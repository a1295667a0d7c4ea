// Package ingest loads support emails from CSV exports.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/supportdesk/backend/internal/models"
)

// DateLayout is the sent_date format of the export. Dates are read as UTC.
const DateLayout = "2006-01-02 15:04:05"

var ErrNoHeader = errors.New("failed to read header")

// RowError describes a skipped row. Row is 1-indexed and counts the header.
type RowError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.Reason)
}

type Options struct {
	// Batch, when set, is folded into generated ids so separate uploads
	// never collide.
	Batch  string
	Logger zerolog.Logger
}

// NewBatch returns a fresh batch tag.
func NewBatch() string {
	return strings.ToLower(ulid.Make().String())
}

func (o Options) id(n int) string {
	if o.Batch == "" {
		return fmt.Sprintf("email_%d", n)
	}
	return fmt.Sprintf("email_%s_%d", o.Batch, n)
}

// ParseCSV reads emails with columns sender, subject, body and sent_date.
// Bad rows are reported and skipped; ids are email_<n> in load order,
// qualified by opts.Batch when set.
func ParseCSV(r io.Reader, opts Options) ([]models.Email, []RowError, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if err != nil {
		return nil, nil, ErrNoHeader
	}
	index := headerIndex(headers)
	if _, ok := lookup(index, senderCols); !ok {
		return nil, nil, fmt.Errorf("missing sender column in header %v", headers)
	}

	var (
		out  []models.Email
		errs []RowError
	)
	row := 1
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			errs = append(errs, opts.skip(row, err.Error()))
			continue
		}

		sender := getFieldAny(rec, index, senderCols...)
		if sender == "" {
			errs = append(errs, opts.skip(row, "sender is required"))
			continue
		}
		dateStr := getFieldAny(rec, index, dateCols...)
		sentAt, err := parseDate(dateStr)
		if err != nil {
			errs = append(errs, opts.skip(row, fmt.Sprintf("invalid sent_date %q", dateStr)))
			continue
		}

		out = append(out, models.Email{
			ID:      opts.id(len(out) + 1),
			Sender:  sender,
			Subject: getFieldAny(rec, index, subjectCols...),
			Body:    getFieldAny(rec, index, bodyCols...),
			SentAt:  sentAt,
		})
	}
	opts.Logger.Debug().Str("batch", opts.Batch).Int("emails", len(out)).Int("skipped", len(errs)).Msg("csv parsed")
	return out, errs, nil
}

func (o Options) skip(row int, reason string) RowError {
	o.Logger.Warn().Int("row", row).Str("reason", reason).Msg("skipped csv row")
	return RowError{Row: row, Reason: reason}
}

// LoadFile parses a CSV file from disk.
func LoadFile(path string, opts Options) ([]models.Email, []RowError, error) {
	if !ValidateExt(path) {
		return nil, nil, fmt.Errorf("%s: not a .csv file", path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	return ParseCSV(f, opts)
}

func ValidateExt(name string) bool {
	return strings.ToLower(filepath.Ext(name)) == ".csv"
}

var (
	senderCols  = []string{"sender", "from", "email", "sender_email"}
	subjectCols = []string{"subject", "title"}
	bodyCols    = []string{"body", "message", "text", "content"}
	dateCols    = []string{"sent_date", "sent_at", "date", "sent"}
)

func parseDate(v string) (time.Time, error) {
	if t, err := time.ParseInLocation(DateLayout, v, time.UTC); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

func headerIndex(headers []string) map[string]int {
	idx := map[string]int{}
	for i, h := range headers {
		idx[normalizeHeader(h)] = i
	}
	return idx
}

func lookup(idx map[string]int, names []string) (int, bool) {
	for _, name := range names {
		if pos, ok := idx[name]; ok {
			return pos, true
		}
	}
	return 0, false
}

func getField(rec []string, idx map[string]int, name string) string {
	pos, ok := idx[name]
	if !ok || pos >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[pos])
}

func getFieldAny(rec []string, idx map[string]int, names ...string) string {
	for _, name := range names {
		if v := getField(rec, idx, normalizeHeader(name)); v != "" {
			return v
		}
	}
	return ""
}

func normalizeHeader(h string) string {
	h = strings.ReplaceAll(h, "\ufeff", "")
	h = strings.ToLower(strings.TrimSpace(h))
	return strings.ReplaceAll(h, " ", "_")
}
