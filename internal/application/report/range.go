package report

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"storefront/internal/domain/record"
)

const dateLayout = "2006-01-02"

var ErrInvalidDate = errors.New("report: date must be YYYY-MM-DD")

// DateRange bounds are inclusive calendar days. A nil bound is open.
type DateRange struct {
	Start *time.Time
	End   *time.Time
}

// ParseRange reads two optional YYYY-MM-DD values in loc.
func ParseRange(start, end string, loc *time.Location) (DateRange, error) {
	if loc == nil {
		loc = time.UTC
	}
	var r DateRange
	if s := strings.TrimSpace(start); s != "" {
		t, err := time.ParseInLocation(dateLayout, s, loc)
		if err != nil {
			return DateRange{}, fmt.Errorf("start %q: %w", s, ErrInvalidDate)
		}
		r.Start = &t
	}
	if s := strings.TrimSpace(end); s != "" {
		t, err := time.ParseInLocation(dateLayout, s, loc)
		if err != nil {
			return DateRange{}, fmt.Errorf("end %q: %w", s, ErrInvalidDate)
		}
		r.End = &t
	}
	return r, nil
}

// Contains applies the passing rule: start <= t when start is set, and
// t <= end 23:59:59.999 when end is set.
func (r DateRange) Contains(t time.Time) bool {
	if r.Start != nil && t.Before(*r.Start) {
		return false
	}
	if r.End != nil {
		y, m, d := r.End.Date()
		last := time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), r.End.Location())
		if t.After(last) {
			return false
		}
	}
	return true
}

func (r DateRange) Open() bool {
	return r.Start == nil && r.End == nil
}

// FilterOrders keeps orders inside the range. Orders whose date is missing or
// unreadable are always kept.
func FilterOrders(orders []record.Record, r DateRange, loc *time.Location) []record.Record {
	out := make([]record.Record, 0, len(orders))
	for _, o := range orders {
		if r.Open() {
			out = append(out, o)
			continue
		}
		raw, ok := record.OrderDate.Raw(o)
		if !ok {
			out = append(out, o)
			continue
		}
		at, ok := record.Time(raw, loc)
		if !ok || r.Contains(at) {
			out = append(out, o)
		}
	}
	return out
}

type Summary struct {
	TotalVentas    decimal.Decimal
	CantidadVentas int
}

func Summarize(orders []record.Record) Summary {
	total := decimal.Zero
	for _, o := range orders {
		total = total.Add(decimal.NewFromFloat(record.OrderTotal.Number(o)))
	}
	return Summary{TotalVentas: total, CantidadVentas: len(orders)}
}

// SortNewestFirst orders by date descending; undated orders go last in their original order.
func SortNewestFirst(orders []record.Record, loc *time.Location) []record.Record {
	return sortByDateDesc(orders, record.OrderDate, loc)
}

func sortByDateDesc(records []record.Record, date record.Field, loc *time.Location) []record.Record {
	type dated struct {
		rec record.Record
		at  time.Time
		ok  bool
	}
	items := make([]dated, len(records))
	for i, o := range records {
		items[i].rec = o
		if raw, ok := date.Raw(o); ok {
			items[i].at, items[i].ok = record.Time(raw, loc)
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].ok != items[j].ok {
			return items[i].ok
		}
		return items[i].at.After(items[j].at)
	})
	out := make([]record.Record, len(items))
	for i, it := range items {
		out[i] = it.rec
	}
	return out
}
