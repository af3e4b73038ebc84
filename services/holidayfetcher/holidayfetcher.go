package holidayfetcher

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"
)

const defaultBaseURL = "https://date.nager.at/api/v3/PublicHolidays"

// Holiday is one entry from the Nager.Date public holiday API.
type Holiday struct {
	Date      string `json:"date"` // YYYY-MM-DD
	LocalName string `json:"localName"`
	Name      string `json:"name"`
}

// Calendar caches public holidays for one country so feed entries can be
// annotated without a network call per request.
type Calendar struct {
	country string
	baseURL string
	client  *http.Client

	mu    sync.RWMutex
	names map[string]string
}

func NewCalendar(country string) *Calendar {
	return &Calendar{
		country: country,
		baseURL: defaultBaseURL,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		names: make(map[string]string),
	}
}

// Refresh fetches holidays for the current and next year.
func (c *Calendar) Refresh() error {
	year := time.Now().Year()
	names := make(map[string]string)
	for _, y := range []int{year, year + 1} {
		holidays, err := c.fetchYear(y)
		if err != nil {
			return err
		}
		for _, holiday := range holidays {
			names[holiday.Date] = holiday.LocalName
		}
	}

	c.mu.Lock()
	c.names = names
	c.mu.Unlock()
	log.Printf("Loaded %d public holidays for %s", len(names), c.country)
	return nil
}

func (c *Calendar) fetchYear(year int) ([]Holiday, error) {
	url := fmt.Sprintf("%s/%d/%s", c.baseURL, year, c.country)
	resp, err := c.client.Get(url)
	if err != nil {
		log.Printf("Error fetching holidays: %v", err)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("holiday API returned status %d", resp.StatusCode)
	}

	var holidays []Holiday
	if err := json.NewDecoder(resp.Body).Decode(&holidays); err != nil {
		log.Printf("Error decoding holiday data: %v", err)
		return nil, err
	}
	return holidays, nil
}

// NameOn returns the holiday name for the date, or "" for ordinary days.
func (c *Calendar) NameOn(t time.Time) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.names[t.Format("2006-01-02")]
}
