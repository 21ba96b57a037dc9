// Package view holds the dashboard's selection state and derives the
// render-ready subset of a dataset from it.
//
// A State is owned by one session. It moves between two states,
// prefecture view and city view; the city view is only reachable while
// a prefecture is selected.
package view

import (
	"github.com/anrid/japan-co2/pkg/co2"
)

// Level is the granularity the map is drawn at.
type Level string

const (
	LevelPrefecture Level = "prefecture"
	LevelCity       Level = "city"
)

func (l Level) Valid() bool {
	return l == LevelPrefecture || l == LevelCity
}

// State is the session's current selection and view level.
// Selected is empty when nothing is selected.
type State struct {
	Selected string `json:"selected,omitempty"`
	Level    Level  `json:"level"`
}

// New returns the initial state: prefecture view, no selection.
func New() *State {
	return &State{Level: LevelPrefecture}
}

// SelectRegion selects id, or clears the selection when id is already
// selected. Ids are not checked against any dataset.
func (s *State) SelectRegion(id string) {
	if id == s.Selected {
		s.Reset()
		return
	}
	s.Selected = id
}

// SetViewLevel switches granularity. Switching to the city view without
// a selection, or to an unknown level, does nothing.
func (s *State) SetViewLevel(level Level) {
	if !level.Valid() {
		return
	}
	if level == LevelCity && !s.CanSelectCity() {
		return
	}
	s.Level = level
}

func (s *State) CanSelectCity() bool {
	return s.Selected != ""
}

func (s *State) Reset() {
	s.Selected = ""
	s.Level = LevelPrefecture
}

// Item is one region as the render layer draws it.
type Item struct {
	ID string `json:"id"`
	co2.Region
	Highlighted bool `json:"highlighted"`
}

// Projection is the render payload for a state.
type Projection struct {
	Level    Level  `json:"level"`
	Selected string `json:"selected,omitempty"`
	Title    string `json:"title"`

	// Prefectures is filled at prefecture level, Cities at city level.
	Prefectures []Item `json:"prefectures,omitempty"`
	Cities      []Item `json:"cities,omitempty"`

	// Summary is the selected prefecture, nil when the selection does
	// not resolve.
	Summary *co2.Region `json:"summary,omitempty"`
}

// Project derives the projection for s. It does not modify s or ds.
func (s State) Project(ds *co2.Dataset) Projection {
	pr := Projection{
		Level:    s.Level,
		Selected: s.Selected,
	}

	selected, found := ds.Prefecture(s.Selected)
	if found {
		summary := selected.Region
		pr.Summary = &summary
	}

	if s.Level == LevelCity {
		pr.Cities = []Item{}
		if found {
			pr.Title = selected.Name + " - City View"
			for _, id := range selected.CityIDs() {
				pr.Cities = append(pr.Cities, Item{ID: id, Region: selected.Cities[id]})
			}
		} else {
			pr.Title = s.Selected + " - City View"
		}
		return pr
	}

	pr.Title = "Japan - Prefecture View"
	pr.Prefectures = []Item{}
	for _, id := range ds.PrefectureIDs() {
		pr.Prefectures = append(pr.Prefectures, Item{
			ID:          id,
			Region:      ds.Prefectures[id].Region,
			Highlighted: id == s.Selected,
		})
	}
	return pr
}

// IDs returns the ids of the regions the projection draws.
func (pr Projection) IDs() []string {
	items := pr.Prefectures
	if pr.Level == LevelCity {
		items = pr.Cities
	}
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ID)
	}
	return ids
}
