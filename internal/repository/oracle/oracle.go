package oracle

import (
	"time"

	"github.com/pobyzaarif/goshortcute"
)

// OracleConfig carries the managed AI endpoint settings. Both the
// recommendation and enrichment adapters share one endpoint host.
type OracleConfig struct {
	BaseURL           string
	BasicAuthUsername string
	BasicAuthPassword string
	Timeout           time.Duration
}

func (c OracleConfig) basicAuth() string {
	return "Basic " + goshortcute.StringtoBase64Encode(c.BasicAuthUsername+":"+c.BasicAuthPassword)
}

func (c OracleConfig) timeout() time.Duration {
	if c.Timeout <= 0 {
		return 30 * time.Second
	}

	return c.Timeout
}

// itemPayload is the compact item projection both oracles consume.
type itemPayload struct {
	ID          uint64   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category"`
	Price       float64  `json:"price"`
	Status      string   `json:"status"`
	Photos      []string `json:"photos,omitempty"`
	SoldAt      string   `json:"sold_at,omitempty"`
}
