package co2

import (
	"math"
	"sort"
)

// Status is the stored assessment of a region's reduction progress.
type Status string

const (
	StatusExcellent Status = "excellent"
	StatusGood      Status = "good"
	StatusProgress  Status = "progress"
	StatusWarning   Status = "warning"
	StatusDanger    Status = "danger"
)

// Statuses lists every known status, best first.
var Statuses = []Status{StatusExcellent, StatusGood, StatusProgress, StatusWarning, StatusDanger}

func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// Label is the legend text shown next to a status colour.
func (s Status) Label() string {
	switch s {
	case StatusExcellent:
		return "Excellent (>20%)"
	case StatusGood:
		return "Good (15-20%)"
	case StatusProgress:
		return "In Progress (10-15%)"
	case StatusWarning:
		return "Needs Attention (<10%)"
	case StatusDanger:
		return "Critical (<5%)"
	}
	return "Unknown"
}

// DeriveStatus maps a reduction percentage onto the legend bands.
// Stored statuses are authoritative; this is only used to flag
// regions whose stored status disagrees with their numbers.
func DeriveStatus(reduction float64) Status {
	switch {
	case reduction > 20:
		return StatusExcellent
	case reduction >= 15:
		return StatusGood
	case reduction >= 10:
		return StatusProgress
	case reduction >= 5:
		return StatusWarning
	default:
		return StatusDanger
	}
}

// Region is a prefecture or a city with its CO2 reduction figures.
type Region struct {
	ID          string  `json:"-"`
	Name        string  `json:"name"`
	Reduction   float64 `json:"reduction"`
	Target      float64 `json:"target"`
	Status      Status  `json:"status"`
	Population  int64   `json:"population"`
	LastUpdated string  `json:"lastUpdated,omitempty"`
}

// Progress is the reduction as a rounded percentage of the target.
func (r Region) Progress() int {
	if r.Target <= 0 {
		return 0
	}
	return int(math.Round(r.Reduction / r.Target * 100))
}

// ProgressBar is the reduction/target ratio in percent, capped at 100.
func (r Region) ProgressBar() float64 {
	if r.Target <= 0 {
		return 0
	}
	return math.Min(r.Reduction/r.Target*100, 100)
}

func (r Region) StatusConsistent() bool {
	return r.Status == DeriveStatus(r.Reduction)
}

// Prefecture is a top-level region owning its cities.
type Prefecture struct {
	Region
	Cities map[string]Region `json:"cities,omitempty"`
}

// CityIDs returns the prefecture's city ids in sorted order.
func (p *Prefecture) CityIDs() []string {
	ids := make([]string, 0, len(p.Cities))
	for id := range p.Cities {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Metadata describes where a dataset came from.
type Metadata struct {
	LastSync string `json:"lastSync,omitempty"`
	Version  string `json:"version,omitempty"`
	Source   string `json:"source,omitempty"`
}
