package co2

import (
	"encoding/json"
	"fmt"
)

// ExportJSON serializes the dataset to the document shape
// {"prefectures": {id: {name, reduction, ..., cities: {...}}}}.
func ExportJSON(ds *Dataset) ([]byte, error) {
	js, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal dataset: %w", err)
	}
	return js, nil
}

// ImportJSON parses and validates a document produced by ExportJSON.
func ImportJSON(data []byte) (*Dataset, error) {
	ds := new(Dataset)
	if err := json.Unmarshal(data, ds); err != nil {
		return nil, fmt.Errorf("parse dataset: %w", err)
	}

	// Ids live in the map keys only.
	for id, p := range ds.Prefectures {
		if p == nil {
			continue
		}
		p.ID = id
		if p.Cities == nil {
			p.Cities = make(map[string]Region)
		}
		for cityID, c := range p.Cities {
			c.ID = cityID
			p.Cities[cityID] = c
		}
	}

	if err := ds.Validate(); err != nil {
		return nil, err
	}
	return ds, nil
}
