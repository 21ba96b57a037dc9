package co2

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
)

// ErrInvalidDataset wraps every validation failure.
var ErrInvalidDataset = errors.New("invalid dataset")

// Dataset holds every prefecture keyed by id.
type Dataset struct {
	Prefectures map[string]*Prefecture `json:"prefectures"`
	Metadata    *Metadata              `json:"metadata,omitempty"`
}

func NewDataset() *Dataset {
	return &Dataset{Prefectures: make(map[string]*Prefecture)}
}

// SampleDataset returns a fresh copy of the built-in sample data.
func SampleDataset() *Dataset {
	ds := NewDataset()

	ds.Add(&Prefecture{
		Region: Region{ID: "tokyo", Name: "Tokyo", Reduction: 15.2, Target: 20.0, Status: StatusProgress, Population: 14_000_000},
		Cities: map[string]Region{
			"shibuya":  {ID: "shibuya", Name: "Shibuya", Reduction: 18.5, Target: 25.0, Status: StatusGood},
			"shinjuku": {ID: "shinjuku", Name: "Shinjuku", Reduction: 12.3, Target: 20.0, Status: StatusWarning},
			"minato":   {ID: "minato", Name: "Minato", Reduction: 22.1, Target: 25.0, Status: StatusExcellent},
		},
	})
	ds.Add(&Prefecture{
		Region: Region{ID: "osaka", Name: "Osaka", Reduction: 12.8, Target: 18.0, Status: StatusWarning, Population: 8_800_000},
		Cities: map[string]Region{
			"osaka-city": {ID: "osaka-city", Name: "Osaka City", Reduction: 14.2, Target: 20.0, Status: StatusProgress},
			"sakai":      {ID: "sakai", Name: "Sakai", Reduction: 10.5, Target: 15.0, Status: StatusWarning},
		},
	})
	ds.Add(&Prefecture{
		Region: Region{ID: "kanagawa", Name: "Kanagawa", Reduction: 18.7, Target: 22.0, Status: StatusGood, Population: 9_200_000},
		Cities: map[string]Region{
			"yokohama": {ID: "yokohama", Name: "Yokohama", Reduction: 20.1, Target: 25.0, Status: StatusGood},
			"kawasaki": {ID: "kawasaki", Name: "Kawasaki", Reduction: 16.8, Target: 20.0, Status: StatusProgress},
		},
	})

	return ds
}

// Add stores p under its id, replacing any prefecture with the same id.
func (ds *Dataset) Add(p *Prefecture) {
	if ds.Prefectures == nil {
		ds.Prefectures = make(map[string]*Prefecture)
	}
	ds.Prefectures[p.ID] = p
}

func (ds *Dataset) Prefecture(id string) (p *Prefecture, found bool) {
	if ds == nil {
		return nil, false
	}
	p, found = ds.Prefectures[id]
	return p, found && p != nil
}

func (ds *Dataset) City(prefectureID, cityID string) (c Region, found bool) {
	p, ok := ds.Prefecture(prefectureID)
	if !ok {
		return Region{}, false
	}
	c, found = p.Cities[cityID]
	return c, found
}

// PrefectureIDs returns every prefecture id in sorted order.
func (ds *Dataset) PrefectureIDs() []string {
	if ds == nil {
		return nil
	}
	ids := make([]string, 0, len(ds.Prefectures))
	for id := range ds.Prefectures {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// CityCount is the number of cities across all prefectures.
func (ds *Dataset) CityCount() int {
	n := 0
	for _, p := range ds.Prefectures {
		if p != nil {
			n += len(p.Cities)
		}
	}
	return n
}

// Validate checks every record and returns the first problem found,
// wrapped in ErrInvalidDataset. Prefectures and cities are visited in
// id order so the reported problem is stable.
func (ds *Dataset) Validate() error {
	if ds == nil || ds.Prefectures == nil {
		return fmt.Errorf("%w: missing prefectures", ErrInvalidDataset)
	}

	for _, id := range ds.PrefectureIDs() {
		p := ds.Prefectures[id]
		if p == nil {
			return fmt.Errorf("%w: %s: empty prefecture", ErrInvalidDataset, id)
		}
		if err := validateRegion(id, p.Region); err != nil {
			return err
		}
		for _, cityID := range p.CityIDs() {
			if err := validateRegion(id+"/"+cityID, p.Cities[cityID]); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateRegion(path string, r Region) error {
	switch {
	case path == "" || path[len(path)-1] == '/':
		return fmt.Errorf("%w: empty region id", ErrInvalidDataset)
	case r.Name == "":
		return fmt.Errorf("%w: %s: missing name", ErrInvalidDataset, path)
	case r.Reduction < 0:
		return fmt.Errorf("%w: %s: negative reduction %v", ErrInvalidDataset, path, r.Reduction)
	case r.Target <= 0:
		return fmt.Errorf("%w: %s: target must be positive, got %v", ErrInvalidDataset, path, r.Target)
	case !r.Status.Valid():
		return fmt.Errorf("%w: %s: unknown status %q", ErrInvalidDataset, path, r.Status)
	case r.Population < 0:
		return fmt.Errorf("%w: %s: negative population %d", ErrInvalidDataset, path, r.Population)
	}
	return nil
}

// Inconsistent lists the paths of regions whose stored status differs
// from DeriveStatus.
func (ds *Dataset) Inconsistent() []string {
	var paths []string
	for _, id := range ds.PrefectureIDs() {
		p := ds.Prefectures[id]
		if !p.StatusConsistent() {
			paths = append(paths, id)
		}
		for _, cityID := range p.CityIDs() {
			if !p.Cities[cityID].StatusConsistent() {
				paths = append(paths, id+"/"+cityID)
			}
		}
	}
	return paths
}

// LoadIfExists imports the dataset stored at file. A missing file is
// reported as not found rather than as an error.
func LoadIfExists(file string) (ds *Dataset, found bool, err error) {
	_, err = os.Stat(file)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, err
	}

	ds, err = ImportFile(file)
	if err != nil {
		return nil, true, err
	}
	return ds, true, nil
}

// Save writes the dataset as indented JSON.
func (ds *Dataset) Save(file string) error {
	js, err := ExportJSON(ds)
	if err != nil {
		return err
	}
	if err := os.WriteFile(file, js, 0644); err != nil {
		return fmt.Errorf("write %s: %w", file, err)
	}
	return nil
}

// Info prints a short summary of the dataset.
func (ds *Dataset) Info(w io.Writer) {
	source, version := "built-in sample", "-"
	if ds.Metadata != nil {
		if ds.Metadata.Source != "" {
			source = ds.Metadata.Source
		}
		if ds.Metadata.Version != "" {
			version = ds.Metadata.Version
		}
	}

	fmt.Fprintf(w, `
	Source       : %s
	Version      : %s
	Prefectures  : %d
	Cities       : %d
	`, source, version, len(ds.Prefectures), ds.CityCount())
	fmt.Fprintln(w, "")
}
