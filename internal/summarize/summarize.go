// Package summarize turns raw input files into the bounded, line-oriented
// data summary the extraction pipeline consumes. Tabular input becomes
// kv/1 record lines: a "format: kv/1" header, shape metadata, then one
// "record" line of tab-separated key=value pairs per sampled row. The
// tabular fallback stage parses this format back without guessing.
package summarize

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
)

const (
	// FormatHeader is the first line of every tabular summary.
	FormatHeader = "format: kv/1"

	// sampleRows caps how many data rows a summary carries.
	sampleRows = 10

	// maxPlainTextBytes caps a passthrough text summary.
	maxPlainTextBytes = 8192
)

// Summarizer converts input data into pipeline summaries.
type Summarizer struct {
	log *zap.Logger
}

// NewSummarizer creates a summarizer.
func NewSummarizer(logger *zap.Logger) *Summarizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Summarizer{log: logger.Named("summarize")}
}

// SummarizeCSV reads CSV data and emits a kv/1 summary. The first row is
// taken as the header; at most ten data rows are sampled. Short rows are
// padded against the header and long rows are truncated to it, so a
// ragged file still summarizes.
func (s *Summarizer) SummarizeCSV(r io.Reader) (string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return "", fmt.Errorf("failed to read csv header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var records [][]string
	totalRows := 0
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			s.log.Debug("Skipping malformed csv row", zap.Error(err))
			continue
		}
		totalRows++
		if len(records) < sampleRows {
			records = append(records, row)
		}
	}

	var b strings.Builder
	fmt.Fprintln(&b, FormatHeader)
	fmt.Fprintf(&b, "rows: %d\n", totalRows)
	fmt.Fprintf(&b, "columns: %s\n", strings.Join(header, ", "))
	fmt.Fprintln(&b)

	for _, row := range records {
		b.WriteString("record")
		for i, col := range header {
			if col == "" {
				continue
			}
			value := ""
			if i < len(row) {
				value = sanitizeValue(row[i])
			}
			if value == "" {
				continue
			}
			fmt.Fprintf(&b, "\t%s=%s", col, value)
		}
		b.WriteByte('\n')
	}

	s.log.Info("CSV summarized",
		zap.Int("total_rows", totalRows),
		zap.Int("sampled_rows", len(records)),
		zap.Int("columns", len(header)))
	return b.String(), nil
}

// SummarizeText passes free text through with a size cap. Oversized input
// is cut at the last full line under the cap.
func (s *Summarizer) SummarizeText(text string) string {
	text = strings.TrimSpace(text)
	if len(text) <= maxPlainTextBytes {
		return text
	}
	cut := text[:maxPlainTextBytes]
	if i := strings.LastIndexByte(cut, '\n'); i > 0 {
		cut = cut[:i]
	}
	s.log.Debug("Text summary truncated",
		zap.Int("original_bytes", len(text)),
		zap.Int("kept_bytes", len(cut)))
	return cut
}

// sanitizeValue strips the characters that would break the kv/1 line
// format out of a cell value.
func sanitizeValue(v string) string {
	v = strings.TrimSpace(v)
	v = strings.ReplaceAll(v, "\t", " ")
	v = strings.ReplaceAll(v, "\n", " ")
	return v
}
