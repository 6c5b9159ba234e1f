package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loanops/loan-service/internal/calendar"
	"github.com/loanops/loan-service/internal/models"
)

func prepayment(date time.Time, amount string) models.Payment {
	return models.Payment{
		PaymentDate: date,
		Amount:      dec(amount),
		PaymentType: models.PaymentPrincipalPrepayment,
	}
}

func TestAccrueNoPrepayments(t *testing.T) {
	start := calendar.Date(2025, time.February, 1)
	end := calendar.Date(2025, time.February, 28)

	interest, ending, segments, observed, err := Accrue(start, end, dec("1000000"), dec("0.07"), nil)
	require.NoError(t, err)

	require.Len(t, segments, 1)
	assert.Empty(t, observed)
	assert.Equal(t, 28, segments[0].Days)
	assert.True(t, ending.Equal(dec("1000000")))
	assertMoney(t, "5444.44", interest)
}

func TestAccrueMidPeriodPrepayment(t *testing.T) {
	start := calendar.Date(2025, time.February, 1)
	end := calendar.Date(2025, time.February, 28)
	events := []models.Payment{prepayment(calendar.Date(2025, time.February, 15), "100000")}

	interest, ending, segments, observed, err := Accrue(start, end, dec("1000000"), dec("0.07"), events)
	require.NoError(t, err)

	require.Len(t, segments, 2)
	require.Len(t, observed, 1)

	// Segment 1: Feb 1-15 at the full balance, segment 2: Feb 16-28 reduced.
	assert.Equal(t, 15, segments[0].Days)
	assert.True(t, segments[0].Principal.Equal(dec("1000000")))
	assert.Equal(t, 13, segments[1].Days)
	assert.True(t, segments[1].Principal.Equal(dec("900000")))
	assert.True(t, ending.Equal(dec("900000")))

	assert.Equal(t, segments[0].Days+segments[1].Days, inclusiveDays(start, end))
	assert.True(t, interest.Equal(segments[0].Interest.Add(segments[1].Interest)))
}

func TestAccrueMultiplePrepayments(t *testing.T) {
	start := calendar.Date(2025, time.February, 1)
	end := calendar.Date(2025, time.February, 28)
	events := []models.Payment{
		prepayment(calendar.Date(2025, time.February, 20), "30000"),
		prepayment(calendar.Date(2025, time.February, 10), "50000"),
	}

	_, ending, segments, observed, err := Accrue(start, end, dec("1000000"), dec("0.07"), events)
	require.NoError(t, err)

	require.Len(t, segments, 3)
	require.Len(t, observed, 2)

	// Events are priced in date order regardless of input order.
	assert.Equal(t, calendar.Date(2025, time.February, 10), observed[0].PaymentDate)
	assert.True(t, segments[0].Principal.Equal(dec("1000000")))
	assert.True(t, segments[1].Principal.Equal(dec("950000")))
	assert.True(t, segments[2].Principal.Equal(dec("920000")))
	assert.True(t, ending.Equal(dec("920000")))
}

func TestAccrueIgnoresEventsOutsidePeriod(t *testing.T) {
	start := calendar.Date(2025, time.February, 1)
	end := calendar.Date(2025, time.February, 28)
	events := []models.Payment{
		prepayment(calendar.Date(2025, time.January, 31), "100000"),
		prepayment(calendar.Date(2025, time.March, 1), "100000"),
	}

	_, ending, segments, observed, err := Accrue(start, end, dec("1000000"), dec("0.07"), events)
	require.NoError(t, err)
	assert.Len(t, segments, 1)
	assert.Empty(t, observed)
	assert.True(t, ending.Equal(dec("1000000")))
}
