package timeseries

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrOutOfOrder is returned by New when record dates are not ascending.
	ErrOutOfOrder = errors.New("records out of date order")
	// ErrDuplicateDate is returned by New when two records share a date.
	ErrDuplicateDate = errors.New("duplicate record date")
)

// Series is an ordered, date-ascending sequence of daily records.
//
// A Series is immutable once constructed: filters return new Series values
// and the analytics engine never mutates or retains the backing slice across
// calls. Independent Series may therefore be processed concurrently without
// coordination.
type Series struct {
	records []Record
}

// New builds a Series from records, validating that dates are strictly
// increasing. The input slice is copied; the caller keeps ownership of it.
func New(records []Record) (Series, error) {
	for i := 1; i < len(records); i++ {
		prev, cur := records[i-1].Date, records[i].Date
		if cur.Equal(prev) {
			return Series{}, fmt.Errorf("record %d (%s): %w", i, cur.Format("2006-01-02"), ErrDuplicateDate)
		}
		if cur.Before(prev) {
			return Series{}, fmt.Errorf("record %d (%s): %w", i, cur.Format("2006-01-02"), ErrOutOfOrder)
		}
	}

	owned := make([]Record, len(records))
	copy(owned, records)
	return Series{records: owned}, nil
}

// Len returns the number of records.
func (s Series) Len() int { return len(s.records) }

// Empty reports whether the series has no records.
func (s Series) Empty() bool { return len(s.records) == 0 }

// At returns the record at index i. Panics if i is out of range,
// matching slice semantics.
func (s Series) At(i int) Record { return s.records[i] }

// Records returns a copy of the underlying records, for consumers such as
// the export collaborator that need the full sequence.
func (s Series) Records() []Record {
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// First returns the earliest record. The second return is false when the
// series is empty.
func (s Series) First() (Record, bool) {
	if len(s.records) == 0 {
		return Record{}, false
	}
	return s.records[0], true
}

// Last returns the latest record. The second return is false when the
// series is empty.
func (s Series) Last() (Record, bool) {
	if len(s.records) == 0 {
		return Record{}, false
	}
	return s.records[len(s.records)-1], true
}

// FilterRange returns a new Series containing the records with
// start <= date <= end. Ordering is preserved, so the result needs no
// re-validation.
func (s Series) FilterRange(start, end time.Time) Series {
	var out []Record
	for _, r := range s.records {
		if !r.Date.Before(start) && !r.Date.After(end) {
			out = append(out, r)
		}
	}
	return Series{records: out}
}

// FilterWeekday returns a new Series containing only the records that fall
// on the given weekday.
func (s Series) FilterWeekday(wd time.Weekday) Series {
	var out []Record
	for _, r := range s.records {
		if r.Weekday() == wd {
			out = append(out, r)
		}
	}
	return Series{records: out}
}
