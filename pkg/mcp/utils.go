package mcp

import (
	"context"
	"database/sql"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/seedling-app/seedling/pkg/garden"
)

// toolArgs extracts the argument map from a tool call. Calls without
// arguments yield an empty map.
func toolArgs(request mcp.CallToolRequest) map[string]any {
	args := request.Params.Arguments
	if args == nil {
		args = map[string]any{}
	}
	return args
}

func stringArg(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}

// intArg reads a numeric argument. JSON numbers arrive as float64.
func intArg(args map[string]any, key string) (int64, bool) {
	switch v := args[key].(type) {
	case float64:
		return int64(v), true
	case int64:
		return v, true
	}
	return 0, false
}

func boolArg(args map[string]any, key string) bool {
	b, _ := args[key].(bool)
	return b
}

// getPlantByName finds a plant by case-insensitive name. Returns nil,
// nil when no plant matches.
func getPlantByName(ctx context.Context, db *sql.DB, name string) (*garden.Plant, error) {
	plants, err := garden.ListPlants(ctx, db, "")
	if err != nil {
		return nil, err
	}
	for _, p := range plants {
		if strings.EqualFold(p.Name, name) {
			return &p, nil
		}
	}
	return nil, nil
}

// splitAndTrim splits a comma-separated list, dropping empty items.
func splitAndTrim(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
