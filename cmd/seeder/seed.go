package main

import (
	"fmt"

	"gopkg.in/yaml.v3"

	domprov "github.com/cardoc/mechfind/internal/domain/provider"
)

// seedFile is the on-disk layout accepted by `seeder load`.
type seedFile struct {
	Providers []seedProvider `yaml:"providers"`
}

type seedProvider struct {
	ID          string   `yaml:"id"`
	Name        string   `yaml:"name"`
	Rating      *float64 `yaml:"rating"`
	ReviewCount *int     `yaml:"review_count"`
	Lat         *float64 `yaml:"lat"`
	Lon         *float64 `yaml:"lon"`
	Tags        []string `yaml:"tags"`
}

// parseSeed decodes and validates every record. Nothing is returned unless all records are valid.
func parseSeed(data []byte) ([]domprov.ServiceProvider, error) {
	var f seedFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	if len(f.Providers) == 0 {
		return nil, fmt.Errorf("seed file has no providers")
	}

	seen := make(map[string]int, len(f.Providers))
	out := make([]domprov.ServiceProvider, 0, len(f.Providers))
	for i, sp := range f.Providers {
		if j, dup := seen[sp.ID]; dup {
			return nil, fmt.Errorf("providers[%d]: duplicate id %q (first at providers[%d])", i, sp.ID, j)
		}
		p, err := domprov.New(sp.ID, sp.Name, sp.Rating, sp.ReviewCount, sp.Lat, sp.Lon, sp.Tags)
		if err != nil {
			return nil, fmt.Errorf("providers[%d]: %w", i, err)
		}
		seen[sp.ID] = i
		out = append(out, p)
	}
	return out, nil
}
