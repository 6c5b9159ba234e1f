package csvstore

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/loanops/loan-service/internal/models"
)

var ratesHeader = []string{"reset_date", "term_sofr_1m", "source", "date_added"}

// LoadRates reads every stored SOFR observation.
func (s *Store) LoadRates() ([]models.RateObservation, error) {
	rows, err := s.readAll(ratesFile)
	if err != nil {
		return nil, err
	}

	observations := make([]models.RateObservation, 0, len(rows))
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		resetDate, err := time.Parse(dateFormat, row[0])
		if err != nil {
			return nil, fmt.Errorf("invalid reset date %q: %w", row[0], err)
		}
		rate, err := decimal.NewFromString(row[1])
		if err != nil {
			return nil, fmt.Errorf("invalid rate %q: %w", row[1], err)
		}
		obs := models.RateObservation{ResetDate: resetDate, Rate: rate}
		if len(row) > 2 {
			obs.Source = row[2]
		}
		observations = append(observations, obs)
	}
	return observations, nil
}

// AddRate appends a SOFR fixing. An existing observation for the same reset
// date is not rewritten; the newer row wins at load time.
func (s *Store) AddRate(resetDate time.Time, rate decimal.Decimal, source string) error {
	existing, err := s.LoadRates()
	if err != nil {
		return err
	}
	for _, obs := range existing {
		if obs.ResetDate.Equal(resetDate) {
			s.log.Warnf("Rate for %s already exists, updating", resetDate.Format(dateFormat))
			break
		}
	}

	row := []string{
		resetDate.Format(dateFormat),
		rate.StringFixed(5),
		source,
		time.Now().Format(dateFormat),
	}
	if err := s.appendRow(ratesFile, ratesHeader, row); err != nil {
		return err
	}
	s.log.Infof("Added rate for %s: %s", resetDate.Format(dateFormat), rate.StringFixed(5))
	return nil
}
