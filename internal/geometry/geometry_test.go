package geometry

import (
	"math/rand"
	"testing"

	"github.com/alexanderramin/gantt/internal/calendar"
	"github.com/alexanderramin/gantt/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func task(start, end string) *domain.Task {
	return &domain.Task{StartDate: calendar.MustParse(start), EndDate: calendar.MustParse(end)}
}

func TestWindowFor_SpansTasksAndBaselines(t *testing.T) {
	a := task("2025-01-10", "2025-01-15")
	b := task("2025-01-12", "2025-01-20")
	bs, be := calendar.MustParse("2025-01-05"), calendar.MustParse("2025-01-08")
	b.BaselineStart, b.BaselineEnd = &bs, &be

	w := WindowFor([]*domain.Task{a, b}, 3, calendar.MustParse("2024-06-01"))
	assert.Equal(t, "2025-01-02", calendar.Format(w.Start))
	assert.Equal(t, "2025-01-23", calendar.Format(w.End))
	assert.Equal(t, 22, w.Days())
}

func TestWindowFor_Empty(t *testing.T) {
	today := calendar.MustParse("2025-04-01")
	w := WindowFor(nil, 2, today)
	assert.Equal(t, "2025-03-30", calendar.Format(w.Start))
	assert.Equal(t, "2025-04-03", calendar.Format(w.End))
}

func TestMapper_DateToOffset(t *testing.T) {
	m := NewMapper(Window{Start: calendar.MustParse("2025-01-01"), End: calendar.MustParse("2025-01-31")}, 30)
	assert.Equal(t, 0, m.DateToOffset(calendar.MustParse("2025-01-01")))
	assert.Equal(t, 90, m.DateToOffset(calendar.MustParse("2025-01-04")))
	assert.Equal(t, -30, m.DateToOffset(calendar.MustParse("2024-12-31")))
	assert.Equal(t, 31*30, m.Width())
}

func TestMapper_OffsetToDate_RoundsToNearestDay(t *testing.T) {
	m := NewMapper(Window{Start: calendar.MustParse("2025-01-01"), End: calendar.MustParse("2025-01-31")}, 30)
	assert.Equal(t, "2025-01-01", calendar.Format(m.OffsetToDate(14)))
	assert.Equal(t, "2025-01-02", calendar.Format(m.OffsetToDate(15)))
	assert.Equal(t, "2025-01-02", calendar.Format(m.OffsetToDate(44)))
}

func TestMapper_DayDelta(t *testing.T) {
	m := NewMapper(Window{}, 20)
	assert.Equal(t, 0, m.DayDelta(9))
	assert.Equal(t, 1, m.DayDelta(10))
	assert.Equal(t, -1, m.DayDelta(-10))
	assert.Equal(t, 3, m.DayDelta(61))
	assert.Equal(t, -3, m.DayDelta(-61))
	assert.Equal(t, 2, m.DayDelta(30))
	assert.Equal(t, -2, m.DayDelta(-30))
}

// TestMapper_RoundTrip property-tests OffsetToDate(DateToOffset(d)) == d for
// every day in the window.
func TestMapper_RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for trial := 0; trial < 50; trial++ {
		start := calendar.AddDays(calendar.MustParse("2020-01-01"), rng.Intn(3000))
		w := Window{Start: start, End: calendar.AddDays(start, rng.Intn(400))}
		m := NewMapper(w, rng.Intn(60)+1)
		for d := w.Start; !w.End.Before(d); d = calendar.AddDays(d, 1) {
			require.True(t, calendar.Equal(d, m.OffsetToDate(m.DateToOffset(d))),
				"trial %d: %s with column width %d", trial, calendar.Format(d), m.ColumnWidth)
		}
	}
}

func TestMapper_Span(t *testing.T) {
	m := NewMapper(Window{Start: calendar.MustParse("2025-01-01"), End: calendar.MustParse("2025-01-31")}, 10)
	x, w := m.Span(calendar.MustParse("2025-01-03"), calendar.MustParse("2025-01-07"))
	assert.Equal(t, 20, x)
	assert.Equal(t, 50, w)
}

func TestLayout_Rows(t *testing.T) {
	l := Layout{RowHeight: 28, BarHeight: 18}
	assert.Equal(t, 14, l.RowCenter(0))
	assert.Equal(t, 42, l.RowCenter(1))
	assert.Equal(t, 5, l.BarTop(0))
	assert.Equal(t, 33, l.BarTop(1))
}

func TestWindow_Contains(t *testing.T) {
	w := Window{Start: calendar.MustParse("2025-01-01"), End: calendar.MustParse("2025-01-03")}
	assert.True(t, w.Contains(calendar.MustParse("2025-01-01")))
	assert.True(t, w.Contains(calendar.MustParse("2025-01-03")))
	assert.False(t, w.Contains(calendar.MustParse("2025-01-04")))
}
