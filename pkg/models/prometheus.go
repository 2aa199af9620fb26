package models

// Target describes one Prometheus scrape target.
type Target struct {
	Instance         string            `json:"instance"`
	Job              string            `json:"job"`
	Health           string            `json:"health"`
	LastError        string            `json:"lastError,omitempty"`
	ScrapeInterval   string            `json:"scrapeInterval,omitempty"`
	ScrapeTimeout    string            `json:"scrapeTimeout,omitempty"`
	Labels           map[string]string `json:"labels,omitempty"`
	DiscoveredLabels map[string]string `json:"discoveredLabels,omitempty"`
	ScrapePool       string            `json:"scrapePool,omitempty"`
	ScrapeURL        string            `json:"scrapeUrl,omitempty"`
	GlobalURL        string            `json:"globalUrl,omitempty"`
}

// Rule describes one Prometheus alerting or recording rule.
type Rule struct {
	Name   string `json:"name"`
	Type   string `json:"type"`
	State  string `json:"state,omitempty"`
	Health string `json:"health"`
}
