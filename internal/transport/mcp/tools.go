package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/cardoc/mechfind/internal/domain"
	"github.com/cardoc/mechfind/internal/transport/wire"
)

// MCP error codes
const (
	ErrorCodeInvalidParams    = -32602
	ErrorCodeInternalError    = -32603
	ErrorCodeStoreUnavailable = -32001
	ErrorCodeStoreTimeout     = -32002
)

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

func newMCPError(code int, message string, data interface{}) error {
	return &MCPError{Code: code, Message: message, Data: data}
}

// handleSearchProviders handles the search_providers tool invocation
func (s *Server) handleSearchProviders(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		if request.Params.Arguments != nil {
			return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
		}
		args = map[string]interface{}{}
	}

	text, err := optionalString(args, "text")
	if err != nil {
		return nil, err
	}
	sort, err := optionalString(args, "sort")
	if err != nil {
		return nil, err
	}
	lat, err := optionalNumber(args, "lat")
	if err != nil {
		return nil, err
	}
	lon, err := optionalNumber(args, "lon")
	if err != nil {
		return nil, err
	}

	q, err := wire.QueryFromParams(text, lat, lon, sort)
	if err != nil {
		return nil, toolError(err)
	}

	if s.fetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.fetchTimeout)
		defer cancel()
	}

	out, err := s.search.Search(ctx, &q)
	if err != nil {
		s.logger.Warn("search_providers failed", zap.Error(err))
		return nil, toolError(err)
	}

	data, err := json.Marshal(wire.FromOutcome(out))
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "encode results", nil)
	}
	return mcp.NewToolResultText(string(data)), nil
}

// toolError maps domain errors to distinct MCP errors.
func toolError(err error) error {
	var iqe *domain.InvalidQueryError
	if errors.As(err, &iqe) {
		return newMCPError(ErrorCodeInvalidParams, iqe.Error(), map[string]interface{}{
			"param":  iqe.Field,
			"reason": iqe.Reason,
		})
	}
	var sue *domain.StoreUnavailableError
	if errors.As(err, &sue) {
		if sue.DeadlineExceeded {
			return newMCPError(ErrorCodeStoreTimeout, "provider store timed out, try again", nil)
		}
		return newMCPError(ErrorCodeStoreUnavailable, "provider store unavailable, try again", nil)
	}
	return newMCPError(ErrorCodeInternalError, "internal error", nil)
}

func optionalString(args map[string]interface{}, key string) (string, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", newMCPError(ErrorCodeInvalidParams, key+" must be a string", map[string]interface{}{
			"param": key,
		})
	}
	return s, nil
}

func optionalNumber(args map[string]interface{}, key string) (*float64, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return nil, nil
	}
	switch n := v.(type) {
	case float64:
		return &n, nil
	case int:
		f := float64(n)
		return &f, nil
	case json.Number:
		f, err := n.Float64()
		if err == nil {
			return &f, nil
		}
	}
	return nil, newMCPError(ErrorCodeInvalidParams, key+" must be a number", map[string]interface{}{
		"param": key,
	})
}
