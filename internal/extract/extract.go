package extract

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"

	"cloudwatch-error-monitor/internal/model"

	"github.com/jmespath/go-jmespath"
)

// Value evaluates the given JMESPath expression against a log message
// (decoded as JSON if possible; otherwise wrapped as {"message": raw}) and
// returns its string representation. Array results use the first element
// only. Returns (value, true, nil) on success; ("", false, nil) if the
// expression matched nothing; or an error for an invalid expression.
func Value(message, expr string) (string, bool, error) {
	if message == "" {
		return "", false, nil
	}
	var input any
	var decoded any
	if err := json.Unmarshal([]byte(message), &decoded); err == nil {
		input = decoded
	} else {
		input = map[string]any{"message": message}
	}

	res, err := jmespath.Search(expr, input)
	if err != nil {
		return "", false, fmt.Errorf("jmespath search failed: %w", err)
	}
	if isEmpty(res) {
		return "", false, nil
	}
	rv := reflect.ValueOf(res)
	if rv.IsValid() && (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array) {
		if rv.Len() == 0 {
			return "", false, nil
		}
		res = rv.Index(0).Interface()
		if isEmpty(res) {
			return "", false, nil
		}
	}
	switch v := res.(type) {
	case string:
		return v, true, nil
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return "", false, fmt.Errorf("marshal result failed: %w", err)
		}
		if len(b) == 0 || string(b) == "null" || string(b) == "[]" || string(b) == "{}" {
			return "", false, nil
		}
		return string(b), true, nil
	}
}

// PatternCount is one extracted error pattern and how many records yielded it.
type PatternCount struct {
	Pattern string
	Count   int
}

const maxPatterns = 10

// CountPatterns evaluates expr against every record's message, iterating
// groups and records in their given order, and tallies the extracted values.
// Returns at most ten patterns, stable-sorted by descending count. Records
// whose message is absent or does not yield a value are skipped; an invalid
// expression yields nil.
func CountPatterns(results model.GroupResults, expr string) []PatternCount {
	counts := make(map[string]int)
	var order []string
	for _, gr := range results {
		for _, rec := range gr.Records {
			msg, ok := rec.Get(model.FieldMessage)
			if !ok {
				continue
			}
			v, found, err := Value(msg, expr)
			if err != nil {
				return nil
			}
			if !found {
				continue
			}
			if _, seen := counts[v]; !seen {
				order = append(order, v)
			}
			counts[v]++
		}
	}
	if len(order) == 0 {
		return nil
	}
	out := make([]PatternCount, 0, len(order))
	for _, p := range order {
		out = append(out, PatternCount{Pattern: p, Count: counts[p]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if len(out) > maxPatterns {
		out = out[:maxPatterns]
	}
	return out
}

func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	switch t := v.(type) {
	case string:
		return t == ""
	case []any:
		return len(t) == 0
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len() == 0
	}
	return false
}
