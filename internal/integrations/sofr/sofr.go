package sofr

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/loanops/loan-service/internal/config"
	"github.com/loanops/loan-service/internal/models"
)

// Client pulls published 1-month term SOFR fixings from a market-data feed
type Client struct {
	url    string
	client *http.Client
	log    *logrus.Logger
}

// NewClient initializes a new SOFR feed client
func NewClient(cfg *config.Config, log *logrus.Logger) *Client {
	return &Client{
		url: cfg.SOFRFeedURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
	}
}

// fetchFeed retrieves the raw XML feed
func (c *Client) fetchFeed() ([]byte, error) {
	req, err := http.NewRequest("GET", c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("Accept", "application/xml")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %v", err)
	}

	c.log.Debugf("SOFR feed XML response: %s", string(body))

	return body, nil
}

// parseFeed extracts fixings from the feed XML
func (c *Client) parseFeed(rawBody []byte) ([]models.RateObservation, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(rawBody); err != nil {
		return nil, fmt.Errorf("failed to parse XML: %v", err)
	}

	elements := doc.FindElements("//fixings/fixing")
	if len(elements) == 0 {
		return nil, fmt.Errorf("no fixings found in feed")
	}

	observations := make([]models.RateObservation, 0, len(elements))
	for _, el := range elements {
		dateEl := el.FindElement("./resetDate")
		rateEl := el.FindElement("./rate")
		if dateEl == nil || rateEl == nil {
			continue
		}

		resetDate, err := time.Parse("2006-01-02", dateEl.Text())
		if err != nil {
			return nil, fmt.Errorf("failed to parse reset date %q: %v", dateEl.Text(), err)
		}
		rate, err := decimal.NewFromString(rateEl.Text())
		if err != nil {
			return nil, fmt.Errorf("failed to parse rate %q: %v", rateEl.Text(), err)
		}

		observations = append(observations, models.RateObservation{
			ResetDate: resetDate,
			Rate:      rate,
			Source:    "feed",
		})
	}

	return observations, nil
}

// FetchFixings retrieves the published term SOFR fixings from the feed
func (c *Client) FetchFixings() ([]models.RateObservation, error) {
	body, err := c.fetchFeed()
	if err != nil {
		return nil, err
	}

	observations, err := c.parseFeed(body)
	if err != nil {
		return nil, err
	}

	c.log.Infof("Retrieved %d SOFR fixings from feed", len(observations))
	return observations, nil
}
