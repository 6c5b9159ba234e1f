package calendar

import "time"

// HolidaySet holds observed bank holidays keyed by ISO date.
type HolidaySet map[string]struct{}

const dayKeyFormat = "2006-01-02"

// Date builds a UTC midnight date, the normal form for all calendar math here.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Contains reports whether t's calendar date is an observed holiday.
func (s HolidaySet) Contains(t time.Time) bool {
	_, ok := s[t.Format(dayKeyFormat)]
	return ok
}

func (s HolidaySet) add(t time.Time) {
	s[t.Format(dayKeyFormat)] = struct{}{}
}

// NthWeekday returns the nth occurrence of a weekday in the given month.
// n == -1 asks for the last occurrence: the fifth if it still falls inside
// the month, otherwise the fourth. That rule decides Memorial Day in years
// where May has five Mondays.
func NthWeekday(year int, month time.Month, weekday time.Weekday, n int) time.Time {
	first := Date(year, month, 1)
	offset := (int(weekday) - int(first.Weekday()) + 7) % 7
	firstOccurrence := first.AddDate(0, 0, offset)
	if n > 0 {
		return firstOccurrence.AddDate(0, 0, 7*(n-1))
	}
	fifth := firstOccurrence.AddDate(0, 0, 28)
	if fifth.Month() == month {
		return fifth
	}
	return firstOccurrence.AddDate(0, 0, 21)
}

// USBankHolidays returns the observed US bank holidays for one year.
// A holiday falling on Saturday is observed the preceding Friday, on Sunday
// the following Monday.
func USBankHolidays(year int) []time.Time {
	holidays := []time.Time{
		Date(year, time.January, 1),    // New Year's Day
		Date(year, time.June, 19),      // Juneteenth
		Date(year, time.July, 4),       // Independence Day
		Date(year, time.November, 11),  // Veterans Day
		Date(year, time.December, 25),  // Christmas
		NthWeekday(year, time.January, time.Monday, 3),    // MLK Day
		NthWeekday(year, time.February, time.Monday, 3),   // Presidents Day
		NthWeekday(year, time.May, time.Monday, -1),       // Memorial Day
		NthWeekday(year, time.September, time.Monday, 1),  // Labor Day
		NthWeekday(year, time.November, time.Thursday, 4), // Thanksgiving
	}

	observed := make([]time.Time, 0, len(holidays))
	for _, h := range holidays {
		switch h.Weekday() {
		case time.Saturday:
			observed = append(observed, h.AddDate(0, 0, -1))
		case time.Sunday:
			observed = append(observed, h.AddDate(0, 0, 1))
		default:
			observed = append(observed, h)
		}
	}
	return observed
}

// HolidaysForYears collects observed holidays for every year in [from, to].
func HolidaysForYears(from, to int) HolidaySet {
	set := make(HolidaySet)
	for year := from; year <= to; year++ {
		for _, h := range USBankHolidays(year) {
			set.add(h)
		}
	}
	return set
}

// IsBusinessDay checks weekends and the holiday set.
func IsBusinessDay(t time.Time, holidays HolidaySet) bool {
	if t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		return false
	}
	return !holidays.Contains(t)
}

// LastBusinessDayOfMonth steps back from the calendar end of month until it
// lands on a business day.
func LastBusinessDayOfMonth(year int, month time.Month, holidays HolidaySet) time.Time {
	d := CalendarMonthEnd(year, month)
	for !IsBusinessDay(d, holidays) {
		d = d.AddDate(0, 0, -1)
	}
	return d
}

// CalendarMonthEnd returns the last calendar day of the month, with no
// business-day adjustment.
func CalendarMonthEnd(year int, month time.Month) time.Time {
	return Date(year, month+1, 1).AddDate(0, 0, -1)
}

// AddBusinessDays offsets start by n business days, stepping one calendar day
// at a time in the sign of n and consuming a step only when the landing date
// is a business day. n may be negative; n == 0 returns start unchanged.
func AddBusinessDays(start time.Time, n int, holidays HolidaySet) time.Time {
	step := 1
	if n < 0 {
		step = -1
	}
	remaining := n * step
	d := start
	for remaining > 0 {
		d = d.AddDate(0, 0, step)
		if IsBusinessDay(d, holidays) {
			remaining--
		}
	}
	return d
}
