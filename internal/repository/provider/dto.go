package provider

import (
	"encoding/json"
	"strconv"

	domprov "github.com/cardoc/mechfind/internal/domain/provider"
)

// Hash field names.
const (
	fieldID          = "id"
	fieldName        = "name"
	fieldRating      = "rating"
	fieldReviewCount = "review_count"
	fieldLat         = "lat"
	fieldLon         = "lon"
	fieldTags        = "tags"
)

// buildHashFields converts a provider into a flat map for HSET. Absent optionals are omitted.
func buildHashFields(p *domprov.ServiceProvider) map[string]string {
	m := map[string]string{
		fieldID:   p.ID(),
		fieldName: p.Name(),
	}
	if r, ok := p.Rating(); ok {
		m[fieldRating] = strconv.FormatFloat(r, 'f', -1, 64)
	}
	if c, ok := p.ReviewCount(); ok {
		m[fieldReviewCount] = strconv.Itoa(c)
	}
	if loc, ok := p.Location(); ok {
		m[fieldLat] = strconv.FormatFloat(loc.Lat, 'f', -1, 64)
		m[fieldLon] = strconv.FormatFloat(loc.Lon, 'f', -1, 64)
	}
	if p.TagCount() > 0 {
		raw, _ := json.Marshal(p.Tags()) //nolint:errchkjson // []string always marshals
		m[fieldTags] = string(raw)
	}
	return m
}

// parseHashFields converts a flat hash back into a provider.
// Unparseable optional fields are treated as absent.
func parseHashFields(fallbackID string, m map[string]string) domprov.ServiceProvider {
	id := m[fieldID]
	if id == "" {
		id = fallbackID
	}

	var tags []string
	if raw := m[fieldTags]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &tags); err != nil {
			tags = nil
		}
	}

	return domprov.Reconstruct(
		id, m[fieldName],
		parseFloat(m, fieldRating), parseInt(m, fieldReviewCount),
		parseFloat(m, fieldLat), parseFloat(m, fieldLon),
		tags,
	)
}

func parseFloat(m map[string]string, key string) *float64 {
	raw, ok := m[key]
	if !ok {
		return nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &f
}

func parseInt(m map[string]string, key string) *int {
	raw, ok := m[key]
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &n
}
