package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/cardoc/mechfind/internal/domain/search/query"
	"github.com/cardoc/mechfind/internal/domain/search/sortmode"
)

// searchProvidersTool returns the tool definition for search_providers
func searchProvidersTool() mcp.Tool {
	return mcp.Tool{
		Name: "search_providers",
		Description: "Find mechanics by name or specialty, optionally ranked by distance from a position. " +
			"Returns results with rating, review count, distance in km and tags.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"text": map[string]interface{}{
					"type":        "string",
					"description": "Case-insensitive substring matched against provider name and tags; empty matches all",
					"maxLength":   query.MaxTextLength,
				},
				"lat": map[string]interface{}{
					"type":        "number",
					"description": "Requester latitude in degrees (requires lon)",
					"minimum":     -90,
					"maximum":     90,
				},
				"lon": map[string]interface{}{
					"type":        "number",
					"description": "Requester longitude in degrees (requires lat)",
					"minimum":     -180,
					"maximum":     180,
				},
				"sort": map[string]interface{}{
					"type":        "string",
					"description": "Result ordering; distance without lat/lon falls back to rating",
					"enum": []string{
						string(sortmode.ByRating),
						string(sortmode.ByDistance),
						string(sortmode.ByReviewCount),
					},
					"default": string(sortmode.Default),
				},
			},
		},
	}
}
