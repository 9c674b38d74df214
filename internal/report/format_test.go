package report

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"cloudwatch-error-monitor/internal/extract"
	"cloudwatch-error-monitor/internal/model"
)

func testFormatter() *Formatter {
	return &Formatter{
		Project:         "Acme",
		Environment:     "UAT",
		Service:         "Payment API",
		IntervalMinutes: 60,
	}
}

func testWindow() (time.Time, time.Time) {
	end := time.Date(2025, 8, 29, 12, 0, 0, 0, time.UTC)
	return end.Add(-time.Hour), end
}

func TestFormatSections(t *testing.T) {
	results := model.GroupResults{groupOf("/aws/lambda/pay", 3), groupOf("/aws/lambda/auth", 1)}
	summary := Summarize(results, results.TotalCount())
	start, end := testWindow()

	doc := testFormatter().Format(results, start, end, summary, nil)

	for _, want := range []string{
		"ACME - PAYMENT API ERROR REPORT [UAT]",
		"MONITORING PERIOD",
		"Start Time:  2025-08-29 11:00:00 UTC",
		"End Time:    2025-08-29 12:00:00 UTC",
		"Duration:    60 minutes",
		"ERROR SUMMARY",
		"Total Errors Found:     4",
		"Affected Log Groups:    2",
		"ERROR BREAKDOWN BY LOG GROUP",
		"DETAILED ERROR LOGS",
		"LOG GROUP: /aws/lambda/pay",
		"LOG GROUP: /aws/lambda/auth",
		"END OF REPORT",
	} {
		if !strings.Contains(doc, want) {
			t.Fatalf("document missing %q\n%s", want, doc)
		}
	}

	// Section order is fixed.
	order := []string{"MONITORING PERIOD", "ERROR SUMMARY", "ERROR BREAKDOWN BY LOG GROUP", "DETAILED ERROR LOGS", "END OF REPORT"}
	last := -1
	for _, s := range order {
		i := strings.Index(doc, s)
		if i <= last {
			t.Fatalf("section %q out of order", s)
		}
		last = i
	}
}

func TestFormatIdempotent(t *testing.T) {
	results := model.GroupResults{groupOf("a", 2), groupOf("b", 2)}
	summary := Summarize(results, results.TotalCount())
	start, end := testWindow()
	f := testFormatter()

	first := f.Format(results, start, end, summary, nil)
	for i := 0; i < 5; i++ {
		if got := f.Format(results, start, end, summary, nil); got != first {
			t.Fatalf("output not byte-identical on run %d", i)
		}
	}
}

func TestFormatBreakdownSortedAndPercentages(t *testing.T) {
	results := model.GroupResults{groupOf("small", 1), groupOf("big", 3)}
	summary := Summarize(results, results.TotalCount())
	start, end := testWindow()

	doc := testFormatter().Format(results, start, end, summary, nil)

	// Descending count order in the breakdown.
	if strings.Index(doc, "  big\n") > strings.Index(doc, "  small\n") {
		t.Fatalf("breakdown not sorted by descending count:\n%s", doc)
	}
	if !strings.Contains(doc, "   3 errors ( 75.0%)") {
		t.Fatalf("missing 75.0%% line:\n%s", doc)
	}
	if !strings.Contains(doc, "   1 errors ( 25.0%)") {
		t.Fatalf("missing 25.0%% line:\n%s", doc)
	}

	// Percentages sum to ~100.
	re := regexp.MustCompile(`\(\s*([0-9.]+)%\)`)
	sum := 0.0
	for _, m := range re.FindAllStringSubmatch(doc, -1) {
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			t.Fatalf("bad percentage %q", m[1])
		}
		sum += v
	}
	if sum < 99.5 || sum > 100.5 {
		t.Fatalf("percentages sum to %v, want ~100", sum)
	}
}

func TestFormatTruncatesAt50(t *testing.T) {
	results := model.GroupResults{groupOf("busy", 60)}
	summary := Summarize(results, results.TotalCount())
	start, end := testWindow()

	doc := testFormatter().Format(results, start, end, summary, nil)

	if got := strings.Count(doc, "ERROR #"); got != 50 {
		t.Fatalf("rendered %d entries, want 50", got)
	}
	if !strings.Contains(doc, "ERROR #50\n") {
		t.Fatalf("entry #50 missing")
	}
	if strings.Contains(doc, "ERROR #51\n") {
		t.Fatalf("entry #51 should not be rendered")
	}
	if !strings.Contains(doc, "... and 10 more errors (truncated for readability)") {
		t.Fatalf("truncation notice missing:\n%s", doc)
	}
}

func TestFormatNoTruncationAtExactly50(t *testing.T) {
	results := model.GroupResults{groupOf("busy", 50)}
	summary := Summarize(results, results.TotalCount())
	start, end := testWindow()

	doc := testFormatter().Format(results, start, end, summary, nil)
	if strings.Contains(doc, "more errors (truncated for readability)") {
		t.Fatalf("unexpected truncation notice for exactly 50 records")
	}
}

func TestFormatPlaceholderForAbsentFields(t *testing.T) {
	results := model.GroupResults{
		{Group: "g", Records: []model.Record{
			{{Name: model.FieldMessage, Value: "only a message"}},
		}},
	}
	summary := Summarize(results, results.TotalCount())
	start, end := testWindow()

	doc := testFormatter().Format(results, start, end, summary, nil)
	if !strings.Contains(doc, "Timestamp:   N/A\n") || !strings.Contains(doc, "Log Stream:  N/A\n") {
		t.Fatalf("absent fields should render as N/A:\n%s", doc)
	}
	if !strings.Contains(doc, "Message:     only a message\n") {
		t.Fatalf("message missing:\n%s", doc)
	}
	if !strings.Contains(doc, "First Error Occurred:   N/A\n") {
		t.Fatalf("summary timestamps should fall back to N/A:\n%s", doc)
	}
}

func TestFormatPatternSection(t *testing.T) {
	results := model.GroupResults{groupOf("g", 2)}
	summary := Summarize(results, results.TotalCount())
	start, end := testWindow()
	patterns := []extract.PatternCount{
		{Pattern: "Timeout", Count: 7},
		{Pattern: "Throttle", Count: 2},
	}

	doc := testFormatter().Format(results, start, end, summary, patterns)
	if !strings.Contains(doc, "TOP ERROR PATTERNS") {
		t.Fatalf("pattern section missing")
	}
	if !strings.Contains(doc, fmt.Sprintf("  %4d  Timeout\n", 7)) {
		t.Fatalf("pattern line missing:\n%s", doc)
	}

	// Section is absent entirely when no patterns were extracted.
	plain := testFormatter().Format(results, start, end, summary, nil)
	if strings.Contains(plain, "TOP ERROR PATTERNS") {
		t.Fatalf("pattern section should be omitted when empty")
	}
}
