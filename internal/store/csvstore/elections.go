package csvstore

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

var electionsHeader = []string{"loan_id", "period_number", "pik_elected", "date_added"}

// LoadPIKElections reads the PIK elections for one loan as a period-number to
// elected mapping. Periods with no row default to cash.
func (s *Store) LoadPIKElections(loanID string) (map[int]bool, error) {
	rows, err := s.readAll(electionsFile)
	if err != nil {
		return nil, err
	}

	elections := make(map[int]bool)
	for _, row := range rows {
		if len(row) < 3 || row[0] != loanID {
			continue
		}
		period, err := strconv.Atoi(row[1])
		if err != nil {
			return nil, fmt.Errorf("invalid period number %q: %w", row[1], err)
		}
		elections[period] = strings.EqualFold(row[2], "true")
	}
	return elections, nil
}

// AddPIKElection records an election for one loan period. A later row for the
// same period supersedes the earlier one at load time.
func (s *Store) AddPIKElection(loanID string, periodNumber int, elected bool) error {
	existing, err := s.LoadPIKElections(loanID)
	if err != nil {
		return err
	}
	if _, ok := existing[periodNumber]; ok {
		s.log.Warnf("PIK election for loan %s period %d already exists, updating", loanID, periodNumber)
	}

	row := []string{
		loanID,
		strconv.Itoa(periodNumber),
		strconv.FormatBool(elected),
		time.Now().Format(dateFormat),
	}
	if err := s.appendRow(electionsFile, electionsHeader, row); err != nil {
		return err
	}
	s.log.Infof("PIK election for loan %s period %d recorded", loanID, periodNumber)
	return nil
}
