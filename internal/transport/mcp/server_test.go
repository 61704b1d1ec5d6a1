package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cardoc/mechfind/internal/domain"
	"github.com/cardoc/mechfind/internal/domain/provider"
	"github.com/cardoc/mechfind/internal/domain/search/query"
	"github.com/cardoc/mechfind/internal/domain/search/ranked"
	"github.com/cardoc/mechfind/internal/domain/search/sortmode"
	"github.com/cardoc/mechfind/internal/transport/wire"
)

type mockSearcher struct {
	outcome     ranked.Outcome
	err         error
	calls       int
	last        query.SearchQuery
	hadDeadline bool
}

func (m *mockSearcher) Search(ctx context.Context, q *query.SearchQuery) (ranked.Outcome, error) {
	m.calls++
	m.last = *q
	_, m.hadDeadline = ctx.Deadline()
	return m.outcome, m.err
}

func ptr[T any](v T) *T { return &v }

func callRequest(args any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Name = "search_providers"
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.Len(t, res.Content, 1)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return tc.Text
}

func TestSearchProvidersTool_Schema(t *testing.T) {
	tool := searchProvidersTool()

	assert.Equal(t, "search_providers", tool.Name)
	for _, key := range []string{"text", "lat", "lon", "sort"} {
		assert.Contains(t, tool.InputSchema.Properties, key)
	}
	assert.Empty(t, tool.InputSchema.Required)
}

func TestHandleSearchProviders_Success(t *testing.T) {
	m1, err := provider.New("m1", "John's Auto", ptr(4.9), nil, ptr(3.848), ptr(11.502), []string{"brakes"})
	require.NoError(t, err)
	search := &mockSearcher{outcome: ranked.Outcome{
		Results:     []ranked.Result{ranked.WithDistance(m1, 0)},
		AppliedSort: sortmode.ByDistance,
	}}
	s := NewServer(search, time.Second, nil)

	res, err := s.handleSearchProviders(context.Background(), callRequest(map[string]interface{}{
		"text": "auto",
		"lat":  3.848,
		"lon":  11.502,
		"sort": "distance",
	}))
	require.NoError(t, err)

	var resp wire.SearchResponse
	require.NoError(t, json.Unmarshal([]byte(resultText(t, res)), &resp))
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "m1", resp.Results[0].ID)
	require.NotNil(t, resp.Results[0].DistanceKm)
	assert.InDelta(t, 0, *resp.Results[0].DistanceKm, 1e-9)
	assert.Nil(t, resp.Results[0].ReviewCount)
	assert.Equal(t, "distance", resp.Sort)

	assert.Equal(t, "auto", search.last.Text())
	assert.Equal(t, sortmode.ByDistance, search.last.SortMode())
	assert.True(t, search.hadDeadline)
}

func TestHandleSearchProviders_NoArguments(t *testing.T) {
	search := &mockSearcher{outcome: ranked.Outcome{AppliedSort: sortmode.ByRating}}
	s := NewServer(search, 0, nil)

	res, err := s.handleSearchProviders(context.Background(), callRequest(nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"results":[],"fallbackApplied":false,"sort":"rating"}`, resultText(t, res))
	assert.Equal(t, sortmode.ByRating, search.last.SortMode())
	assert.False(t, search.hadDeadline)
}

func TestHandleSearchProviders_InvalidParams(t *testing.T) {
	tests := []struct {
		name string
		args any
	}{
		{"arguments not an object", []string{"x"}},
		{"text not a string", map[string]interface{}{"text": 5.0}},
		{"lat not a number", map[string]interface{}{"lat": "north", "lon": 1.0}},
		{"lone lat", map[string]interface{}{"lat": 1.0}},
		{"lat out of range", map[string]interface{}{"lat": -91.0, "lon": 0.0}},
		{"unknown sort", map[string]interface{}{"sort": "nearest"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			search := &mockSearcher{}
			s := NewServer(search, 0, nil)

			_, err := s.handleSearchProviders(context.Background(), callRequest(tt.args))

			var me *MCPError
			require.True(t, errors.As(err, &me), "got %v", err)
			assert.Equal(t, ErrorCodeInvalidParams, me.Code)
			assert.Zero(t, search.calls)
		})
	}
}

func TestHandleSearchProviders_StoreErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"unavailable", domain.NewStoreUnavailable(errors.New("connection refused")), ErrorCodeStoreUnavailable},
		{"timeout", domain.NewStoreUnavailable(fmt.Errorf("scan: %w", context.DeadlineExceeded)), ErrorCodeStoreTimeout},
		{"other", errors.New("boom"), ErrorCodeInternalError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewServer(&mockSearcher{err: tt.err}, 0, nil)

			_, err := s.handleSearchProviders(context.Background(), callRequest(map[string]interface{}{}))

			var me *MCPError
			require.True(t, errors.As(err, &me))
			assert.Equal(t, tt.wantCode, me.Code)
			assert.NotContains(t, me.Message, "connection refused")
		})
	}
}
