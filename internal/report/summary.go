package report

import "cloudwatch-error-monitor/internal/model"

// Summarize derives aggregate statistics from per-group query results. It is
// a pure function: no side effects, same inputs give the same Summary.
//
// First/last error times are positional. Groups are walked in their given
// order and records within a group in their given order; the first record
// carrying a timestamp sets FirstErrorTime, and every timestamped record
// overwrites LastErrorTime. The records are not merged by time across groups.
func Summarize(results model.GroupResults, totalCount int) model.Summary {
	s := model.Summary{
		TotalErrors:       totalCount,
		AffectedLogGroups: len(results),
	}
	for _, gr := range results {
		s.Breakdown = append(s.Breakdown, model.GroupCount{Group: gr.Group, Count: len(gr.Records)})
		for _, rec := range gr.Records {
			ts, ok := rec.Get(model.FieldTimestamp)
			if !ok || ts == "" {
				continue
			}
			if s.FirstErrorTime == "" {
				s.FirstErrorTime = ts
			}
			s.LastErrorTime = ts
		}
	}
	return s
}
