package report

import (
	"fmt"
	"strings"
	"time"

	"cloudwatch-error-monitor/internal/extract"
	"cloudwatch-error-monitor/internal/model"
)

// maxRecordsPerGroup caps the detail section; groups with more records get a
// truncation notice instead.
const maxRecordsPerGroup = 50

const (
	timeLayout  = "2006-01-02 15:04:05"
	placeholder = "N/A"
)

var (
	ruleEq   = strings.Repeat("=", 80)
	ruleDash = strings.Repeat("-", 80)
	ruleHash = strings.Repeat("#", 80)
)

// Formatter renders the aggregate and raw records into the report document.
type Formatter struct {
	Project         string
	Environment     string
	Service         string
	IntervalMinutes int
}

// Format renders the full error report. The output is deterministic: the same
// inputs produce a byte-identical document. Section order is fixed: header,
// monitoring period, summary, per-group breakdown, optional pattern analysis,
// detailed logs per group (first 50 records each).
func (f *Formatter) Format(results model.GroupResults, start, end time.Time, summary model.Summary, patterns []extract.PatternCount) string {
	var b strings.Builder

	// Header
	b.WriteString(ruleEq + "\n")
	fmt.Fprintf(&b, "%s - %s ERROR REPORT [%s]\n", strings.ToUpper(f.Project), strings.ToUpper(f.Service), f.Environment)
	b.WriteString(ruleEq + "\n\n")

	// Time range
	b.WriteString("MONITORING PERIOD\n")
	b.WriteString(ruleDash + "\n")
	fmt.Fprintf(&b, "Start Time:  %s UTC\n", start.Format(timeLayout))
	fmt.Fprintf(&b, "End Time:    %s UTC\n", end.Format(timeLayout))
	fmt.Fprintf(&b, "Duration:    %d minutes\n\n", f.IntervalMinutes)

	// Summary statistics
	b.WriteString("ERROR SUMMARY\n")
	b.WriteString(ruleDash + "\n")
	fmt.Fprintf(&b, "Total Errors Found:     %d\n", summary.TotalErrors)
	fmt.Fprintf(&b, "Project:                %s\n", f.Project)
	fmt.Fprintf(&b, "Environment:            %s\n", f.Environment)
	fmt.Fprintf(&b, "Service:                %s\n", f.Service)
	fmt.Fprintf(&b, "Affected Log Groups:    %d\n", summary.AffectedLogGroups)
	fmt.Fprintf(&b, "First Error Occurred:   %s\n", orPlaceholder(summary.FirstErrorTime))
	fmt.Fprintf(&b, "Last Error Occurred:    %s\n\n", orPlaceholder(summary.LastErrorTime))

	// Breakdown, largest offender first
	if len(summary.Breakdown) > 0 {
		b.WriteString("ERROR BREAKDOWN BY LOG GROUP\n")
		b.WriteString(ruleDash + "\n")
		for _, gc := range summary.BreakdownByCount() {
			pct := 0.0
			if summary.TotalErrors > 0 {
				pct = float64(gc.Count) / float64(summary.TotalErrors) * 100
			}
			fmt.Fprintf(&b, "  %s\n", gc.Group)
			fmt.Fprintf(&b, "    %4d errors (%5.1f%%)\n\n", gc.Count, pct)
		}
	}

	if len(patterns) > 0 {
		b.WriteString("TOP ERROR PATTERNS\n")
		b.WriteString(ruleDash + "\n")
		for _, p := range patterns {
			fmt.Fprintf(&b, "  %4d  %s\n", p.Count, p.Pattern)
		}
		b.WriteString("\n")
	}

	b.WriteString(ruleEq + "\n\n")

	// Detailed logs, grouped by log group in query order
	b.WriteString("DETAILED ERROR LOGS\n")
	b.WriteString(ruleEq + "\n\n")

	for _, gr := range results {
		b.WriteString("\n" + ruleHash + "\n")
		fmt.Fprintf(&b, "LOG GROUP: %s\n", gr.Group)
		fmt.Fprintf(&b, "Error Count: %d\n", len(gr.Records))
		b.WriteString(ruleHash + "\n\n")

		shown := gr.Records
		if len(shown) > maxRecordsPerGroup {
			shown = shown[:maxRecordsPerGroup]
		}
		for i, rec := range shown {
			fmt.Fprintf(&b, "ERROR #%d\n", i+1)
			fmt.Fprintf(&b, "Timestamp:   %s\n", fieldOr(rec, model.FieldTimestamp))
			fmt.Fprintf(&b, "Log Stream:  %s\n", fieldOr(rec, model.FieldLogStream))
			fmt.Fprintf(&b, "Message:     %s\n", fieldOr(rec, model.FieldMessage))
			b.WriteString(ruleDash + "\n\n")
		}
		if n := len(gr.Records) - maxRecordsPerGroup; n > 0 {
			fmt.Fprintf(&b, "... and %d more errors (truncated for readability)\n\n", n)
		}
	}

	// Footer
	b.WriteString(ruleEq + "\n")
	b.WriteString("Full details available in CloudWatch Logs Insights\n")
	b.WriteString(ruleEq + "\n")
	b.WriteString("END OF REPORT\n")
	b.WriteString(ruleEq + "\n")

	return b.String()
}

func fieldOr(rec model.Record, name string) string {
	if v, ok := rec.Get(name); ok && v != "" {
		return v
	}
	return placeholder
}

func orPlaceholder(s string) string {
	if s == "" {
		return placeholder
	}
	return s
}
