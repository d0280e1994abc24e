package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRegistryEmbedded(t *testing.T) {
	reg, err := LoadRegistry("")
	require.NoError(t, err)
	require.NotEmpty(t, reg.Institutions)

	for name, inst := range reg.Institutions {
		assert.NotEmpty(t, inst.Queries, "institution %q has no queries", name)
		assert.NotEmpty(t, inst.Priority, "institution %q has no priority keywords", name)
	}
}

func TestLoadRegistryFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "institutions.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
institutions:
  "School of Law":
    queries:
      - "legal research grants ${REGION}"
    priority: [law, justice]
    exclude: [news]
    result_limit: 3
    engine: bing
`), 0o644))

	t.Setenv("REGION", "kenya")

	reg, err := LoadRegistry(path)
	require.NoError(t, err)

	inst := reg.Lookup("School of Law")
	assert.Equal(t, []string{"legal research grants kenya"}, inst.Queries)
	assert.Equal(t, []string{"law", "justice"}, inst.Priority)
	assert.Equal(t, 3, inst.ResultLimit)
	assert.Equal(t, "bing", inst.Engine)
}

func TestLoadRegistryMissingFile(t *testing.T) {
	_, err := LoadRegistry(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestLookupUnknownSchool(t *testing.T) {
	reg := &Registry{Institutions: map[string]Institution{}}

	inst := reg.Lookup("School of Nowhere")
	assert.Empty(t, inst.Queries)
	assert.Empty(t, inst.Priority)
	assert.Empty(t, inst.Exclude)

	var nilReg *Registry
	assert.Empty(t, nilReg.Lookup("anything").Queries)
}
