package summarize

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kumarse1/KGV2/api/schemas"
	"github.com/kumarse1/KGV2/internal/extract"
)

const sampleCSV = `application, database, owner
Billing System, Customer Database, Jane Doe
CRM Portal, Orders Database, John Carter
`

func TestSummarizeCSV(t *testing.T) {
	s := NewSummarizer(nil)

	summary, err := s.SummarizeCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(summary, "\n"), "\n")
	require.GreaterOrEqual(t, len(lines), 6)
	assert.Equal(t, FormatHeader, lines[0])
	assert.Equal(t, "rows: 2", lines[1])
	assert.Equal(t, "columns: application, database, owner", lines[2])
	assert.Empty(t, lines[3])
	assert.Equal(t, "record\tapplication=Billing System\tdatabase=Customer Database\towner=Jane Doe", lines[4])
	assert.Equal(t, "record\tapplication=CRM Portal\tdatabase=Orders Database\towner=John Carter", lines[5])
}

func TestSummarizeCSVSamplesTenRows(t *testing.T) {
	s := NewSummarizer(nil)

	var sb strings.Builder
	sb.WriteString("name\n")
	for i := 0; i < 25; i++ {
		sb.WriteString("row value here\n")
	}

	summary, err := s.SummarizeCSV(strings.NewReader(sb.String()))
	require.NoError(t, err)

	assert.Contains(t, summary, "rows: 25")
	assert.Equal(t, 10, strings.Count(summary, "record\t"))
}

func TestSummarizeCSVRaggedRows(t *testing.T) {
	s := NewSummarizer(nil)

	csv := "a,b,c\n" +
		"one,two\n" +
		"one,two,three,four\n"

	summary, err := s.SummarizeCSV(strings.NewReader(csv))
	require.NoError(t, err)

	// Short rows omit missing cells, long rows drop the extras.
	assert.Contains(t, summary, "record\ta=one\tb=two\n")
	assert.Contains(t, summary, "record\ta=one\tb=two\tc=three\n")
	assert.NotContains(t, summary, "four")
}

func TestSummarizeCSVEmptyInput(t *testing.T) {
	s := NewSummarizer(nil)

	_, err := s.SummarizeCSV(strings.NewReader(""))
	assert.Error(t, err)
}

func TestSummarizeCSVSanitizesValues(t *testing.T) {
	s := NewSummarizer(nil)

	csv := "note\n\"line one\nline two\"\n"
	summary, err := s.SummarizeCSV(strings.NewReader(csv))
	require.NoError(t, err)
	assert.Contains(t, summary, "record\tnote=line one line two")
}

func TestSummaryRoundTripsThroughTabularFallback(t *testing.T) {
	s := NewSummarizer(nil)

	summary, err := s.SummarizeCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)

	g, err := extract.NewTabularExtractor(nil).Extract(summary)
	require.NoError(t, err)

	require.Len(t, g.Nodes, 6)
	assert.Equal(t, schemas.Entity{ID: "Billing System", Type: schemas.EntityApplication}, g.Nodes[0])
	assert.Equal(t, schemas.Entity{ID: "Jane Doe", Type: schemas.EntityPerson}, g.Nodes[2])
	assert.True(t, extract.Validate(g))
}

func TestSummarizeTextPassthrough(t *testing.T) {
	s := NewSummarizer(nil)

	assert.Equal(t, "hello world", s.SummarizeText("  hello world\n"))
}

func TestSummarizeTextTruncatesAtLine(t *testing.T) {
	s := NewSummarizer(nil)

	line := strings.Repeat("x", 100) + "\n"
	text := strings.Repeat(line, 200)

	out := s.SummarizeText(text)
	assert.LessOrEqual(t, len(out), maxPlainTextBytes)
	assert.False(t, strings.HasSuffix(out, "x\n"))
	// The cut lands on a line boundary, never mid-line.
	for _, l := range strings.Split(out, "\n") {
		assert.Len(t, l, 100)
	}
}
