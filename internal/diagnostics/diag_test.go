package diagnostics

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithDoesNotShareEvidence(t *testing.T) {
	base := New(Info, SetupDone, "canvas bound").With("width", 800)
	derived := base.With("height", 100)

	assert.Len(t, base.Evidence, 1)
	assert.Len(t, derived.Evidence, 2)
	assert.Equal(t, 800, derived.Evidence["width"])
}

func TestDiagnosticJSON(t *testing.T) {
	d := New(Warn, SetupRepeated, "canvas rebound")
	b, err := json.Marshal(d)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	assert.Equal(t, "warning", m["severity"])
	assert.Equal(t, SetupRepeated, m["code"])
	assert.NotContains(t, m, "evidence")
}
