package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func holidays2025() HolidaySet {
	return HolidaysForYears(2025, 2025)
}

func TestUSBankHolidaysCount(t *testing.T) {
	holidays := USBankHolidays(2025)
	assert.Len(t, holidays, 10)
}

func TestMLKDay2025(t *testing.T) {
	mlk := Date(2025, time.January, 20)
	assert.True(t, holidays2025().Contains(mlk))
	assert.Equal(t, time.Monday, mlk.Weekday())
}

func TestNthWeekdayThirdMonday(t *testing.T) {
	got := NthWeekday(2025, time.January, time.Monday, 3)
	assert.Equal(t, Date(2025, time.January, 20), got)
}

func TestNthWeekdayLastMonday(t *testing.T) {
	// Memorial Day 2025: May has four Mondays after the 5th, last is May 26.
	got := NthWeekday(2025, time.May, time.Monday, -1)
	assert.Equal(t, Date(2025, time.May, 26), got)
}

func TestSaturdayHolidayObservedFriday(t *testing.T) {
	// July 4, 2026 is a Saturday, observed Friday July 3.
	holidays := HolidaysForYears(2026, 2026)
	assert.True(t, holidays.Contains(Date(2026, time.July, 3)))
	assert.False(t, IsBusinessDay(Date(2026, time.July, 3), holidays))
	assert.True(t, IsBusinessDay(Date(2026, time.July, 6), holidays))
}

func TestSundayHolidayObservedMonday(t *testing.T) {
	// July 4, 2027 is a Sunday, observed Monday July 5.
	holidays := HolidaysForYears(2027, 2027)
	assert.True(t, holidays.Contains(Date(2027, time.July, 5)))
	assert.False(t, IsBusinessDay(Date(2027, time.July, 5), holidays))
	assert.True(t, IsBusinessDay(Date(2027, time.July, 6), holidays))
}

func TestLastBusinessDayRegularMonth(t *testing.T) {
	// January 31, 2025 is a Friday.
	got := LastBusinessDayOfMonth(2025, time.January, holidays2025())
	assert.Equal(t, Date(2025, time.January, 31), got)
}

func TestLastBusinessDayWeekend(t *testing.T) {
	// August 31, 2025 is a Sunday, so the month rolls back to Friday the 29th.
	got := LastBusinessDayOfMonth(2025, time.August, holidays2025())
	assert.Equal(t, Date(2025, time.August, 29), got)
}

func TestAddBusinessDaysForward(t *testing.T) {
	// Friday Jan 31 + 2 business days = Tuesday Feb 4.
	got := AddBusinessDays(Date(2025, time.January, 31), 2, holidays2025())
	assert.Equal(t, Date(2025, time.February, 4), got)
}

func TestAddBusinessDaysBackward(t *testing.T) {
	// Monday Feb 3 - 2 business days = Thursday Jan 30.
	got := AddBusinessDays(Date(2025, time.February, 3), -2, holidays2025())
	assert.Equal(t, Date(2025, time.January, 30), got)
}

func TestAddBusinessDaysZero(t *testing.T) {
	start := Date(2025, time.August, 31)
	assert.Equal(t, start, AddBusinessDays(start, 0, holidays2025()))
}

func TestAddBusinessDaysSkipsHoliday(t *testing.T) {
	// Friday Jan 17 + 1 business day skips the weekend and MLK Day.
	got := AddBusinessDays(Date(2025, time.January, 17), 1, holidays2025())
	assert.Equal(t, Date(2025, time.January, 21), got)
}

func TestCalendarMonthEnd(t *testing.T) {
	assert.Equal(t, Date(2025, time.February, 28), CalendarMonthEnd(2025, time.February))
	assert.Equal(t, Date(2024, time.February, 29), CalendarMonthEnd(2024, time.February))
	assert.Equal(t, Date(2025, time.December, 31), CalendarMonthEnd(2025, time.December))
}
