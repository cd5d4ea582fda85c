package charts

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

type FieldKind int

const (
	FieldUnknown FieldKind = iota
	FieldNumber
	FieldCategory
	FieldTime
)

func (k FieldKind) String() string {
	switch k {
	case FieldNumber:
		return "number"
	case FieldCategory:
		return "category"
	case FieldTime:
		return "time"
	default:
		return "unknown"
	}
}

// Value is one field of a Record. The tag is set once when the value is
// built and never re-inferred afterwards.
type Value struct {
	Kind FieldKind
	num  float64
	str  string
	when time.Time
}

func Number(f float64) Value {
	return Value{
		Kind: FieldNumber,
		num:  f,
	}
}

func Text(s string) Value {
	return Value{
		Kind: FieldCategory,
		str:  s,
	}
}

func Time(t time.Time) Value {
	return Value{
		Kind: FieldTime,
		when: t,
	}
}

// ValueOf converts decoded values (json, csv, sql, dynamodb) into a Value.
// Strings stay categories: numeric or temporal interpretation happens when a
// scale or a generator asks for it.
func ValueOf(v any) Value {
	switch v := v.(type) {
	case Value:
		return v
	case nil:
		return Value{}
	case float64:
		return Number(v)
	case float32:
		return Number(float64(v))
	case int:
		return Number(float64(v))
	case int32:
		return Number(float64(v))
	case int64:
		return Number(float64(v))
	case uint:
		return Number(float64(v))
	case uint32:
		return Number(float64(v))
	case uint64:
		return Number(float64(v))
	case bool:
		if v {
			return Number(1)
		}
		return Number(0)
	case time.Time:
		return Time(v)
	case []byte:
		return Text(string(v))
	case string:
		return Text(v)
	case fmt.Stringer:
		return Text(v.String())
	default:
		return Text(fmt.Sprint(v))
	}
}

func (v Value) IsZero() bool {
	return v.Kind == FieldUnknown
}

// Float returns the numeric interpretation of v. Numeric strings are parsed,
// times are converted to unix milliseconds. The boolean reports whether the
// value really was numeric.
func (v Value) Float() (float64, bool) {
	switch v.Kind {
	case FieldNumber:
		return v.num, true
	case FieldTime:
		return float64(v.when.UnixMilli()), true
	case FieldCategory:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.str), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// Time returns the temporal interpretation of v.
func (v Value) Time() (time.Time, bool) {
	switch v.Kind {
	case FieldTime:
		return v.when, true
	case FieldCategory:
		return parseDate(v.str)
	default:
		return time.Time{}, false
	}
}

func (v Value) String() string {
	switch v.Kind {
	case FieldNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case FieldTime:
		return v.when.Format(time.RFC3339)
	case FieldCategory:
		return v.str
	default:
		return ""
	}
}

// Record is one observation.
type Record map[string]Value

func MakeRecord(fields map[string]any) Record {
	r := make(Record, len(fields))
	for k, v := range fields {
		r[k] = ValueOf(v)
	}
	return r
}

func MakeRecords(list []map[string]any) []Record {
	rs := make([]Record, 0, len(list))
	for _, fields := range list {
		rs = append(rs, MakeRecord(fields))
	}
	return rs
}

func (r Record) Get(key string) Value {
	return r[key]
}

// Float never fails: missing or malformed values count as 0 and the
// boolean reports it.
func (r Record) Float(key string) (float64, bool) {
	f, ok := r[key].Float()
	if !ok {
		return 0, false
	}
	if f != f {
		return 0, false
	}
	return f, true
}

func (r Record) Text(key string) string {
	return r[key].String()
}

var isoDate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}([T ]\d{2}:\d{2}(:\d{2}(\.\d+)?)?(Z|[+-]\d{2}:?\d{2})?)?$`)

var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

func parseDate(str string) (time.Time, bool) {
	str = strings.TrimSpace(str)
	if !isoDate.MatchString(str) {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, str); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Classify decides once which kind a field has across all records.
func Classify(records []Record, key string) FieldKind {
	var (
		seen bool
		num  = true
		tim  = true
	)
	for _, r := range records {
		v, ok := r[key]
		if !ok || v.IsZero() {
			continue
		}
		seen = true
		switch v.Kind {
		case FieldNumber:
			tim = false
		case FieldTime:
			num = false
		case FieldCategory:
			if _, ok := v.Float(); !ok {
				num = false
			}
			if _, ok := v.Time(); !ok {
				tim = false
			}
		}
		if !num && !tim {
			break
		}
	}
	switch {
	case !seen:
		return FieldUnknown
	case num:
		return FieldNumber
	case tim:
		return FieldTime
	default:
		return FieldCategory
	}
}

func columnValues(records []Record, key string) []Value {
	vs := make([]Value, 0, len(records))
	for _, r := range records {
		vs = append(vs, r[key])
	}
	return vs
}

// MarshalJSON writes numbers as numbers, times as RFC 3339 strings and
// missing values as null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case FieldNumber:
		if math.IsNaN(v.num) || math.IsInf(v.num, 0) {
			return []byte("null"), nil
		}
		return json.Marshal(v.num)
	case FieldTime, FieldCategory:
		return json.Marshal(v.String())
	default:
		return []byte("null"), nil
	}
}
