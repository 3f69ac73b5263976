package docs

import (
	"encoding/json"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

type document struct {
	Paths       map[string]map[string]operation `json:"paths"`
	Definitions map[string]json.RawMessage      `json:"definitions"`
}

type operation struct {
	Responses map[string]struct {
		Schema struct {
			Ref   string `json:"$ref"`
			Items struct {
				Ref string `json:"$ref"`
			} `json:"items"`
		} `json:"schema"`
	} `json:"responses"`
}

func readDocument(t *testing.T) (string, document) {
	t.Helper()
	raw, err := swag.ReadDoc()
	require.NoError(t, err)

	var doc document
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	return raw, doc
}

func TestEveryRefResolves(t *testing.T) {
	raw, doc := readDocument(t)

	refs := regexp.MustCompile(`"#/definitions/([^"]+)"`).FindAllStringSubmatch(raw, -1)
	require.NotEmpty(t, refs)
	for _, m := range refs {
		assert.Contains(t, doc.Definitions, m[1])
	}
}

func TestResponseSchemasMatchHandlers(t *testing.T) {
	_, doc := readDocument(t)

	success := func(path, method, code string) string {
		op, ok := doc.Paths[path][method]
		require.True(t, ok, "%s %s", method, path)
		s := op.Responses[code].Schema
		if s.Ref != "" {
			return s.Ref
		}
		return "[]" + s.Items.Ref
	}

	const defs = "#/definitions/"
	assert.Equal(t, defs+"model.ApplicationResponse", success("/applications/{id}/apply", "post", "201"))
	assert.Equal(t, defs+"model.ApplicationResponse", success("/applications/{id}/apply", "post", "200"))
	assert.Equal(t, defs+"model.ApplicationResponse", success("/applications/{id}/shortlist", "put", "200"))
	assert.Equal(t, defs+"model.ApplicationResponse", success("/applications/{id}/reject", "put", "200"))
	assert.Equal(t, defs+"model.JobResponse", success("/jobs", "post", "201"))
	assert.Equal(t, defs+"model.JobResponse", success("/jobs/{id}", "put", "200"))
	assert.Equal(t, "[]"+defs+"model.EmployerJob", success("/jobs/employer/jobs", "get", "200"))
	assert.Equal(t, "[]"+defs+"model.Job", success("/jobs", "get", "200"))
	assert.Equal(t, defs+"model.AuthResponse", success("/auth/register", "post", "201"))
}
