package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

func TestSwaggerDocRoutes(t *testing.T) {
	raw, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	require.NoError(t, err)

	var doc struct {
		Paths map[string]map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))

	routes := map[string][]string{
		"/health":            {"get"},
		"/api/upload":        {"post"},
		"/api/photos":        {"get"},
		"/api/photos/search": {"get"},
		"/api/photos/{id}":   {"get", "delete"},
		"/debug/orphans":     {"get"},
	}

	assert.Len(t, doc.Paths, len(routes))
	for path, methods := range routes {
		require.Contains(t, doc.Paths, path)
		for _, method := range methods {
			assert.Contains(t, doc.Paths[path], method, path)
		}
	}
}
