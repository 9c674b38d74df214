package model

import "sort"

// Well-known CloudWatch Logs Insights result fields.
const (
	FieldTimestamp = "@timestamp"
	FieldMessage   = "@message"
	FieldLogStream = "@logStream"
	FieldRequestID = "@requestId"
)

// Field is one named value of a query match.
type Field struct {
	Name  string
	Value string
}

// Record is the ordered field set of a single matched log line. Immutable
// once fetched; field order is the order the query service returned.
type Record []Field

// Get returns the value of the named field and whether it was present.
func (r Record) Get(name string) (string, bool) {
	for _, f := range r {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

// GroupResult pairs a log group with the records matched in it.
type GroupResult struct {
	Group   string
	Records []Record
}

// GroupResults preserves the order log groups were queried in. Groups that
// matched nothing are never appended.
type GroupResults []GroupResult

// TotalCount returns the number of records across all groups.
func (g GroupResults) TotalCount() int {
	n := 0
	for _, gr := range g {
		n += len(gr.Records)
	}
	return n
}

// GroupCount is one log group's share of the total error count.
type GroupCount struct {
	Group string
	Count int
}

// Summary is the aggregate derived from one invocation's query results.
// FirstErrorTime and LastErrorTime are positional: the timestamp of the first
// and last record encountered iterating groups in their given order, not the
// globally earliest and latest.
type Summary struct {
	TotalErrors       int
	AffectedLogGroups int
	Breakdown         []GroupCount
	FirstErrorTime    string
	LastErrorTime     string
}

// BreakdownByCount returns a copy of the breakdown stable-sorted by
// descending count; groups with equal counts keep their original order.
func (s Summary) BreakdownByCount() []GroupCount {
	out := make([]GroupCount, len(s.Breakdown))
	copy(out, s.Breakdown)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}
