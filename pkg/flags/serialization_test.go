package flags

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const schemaYAML = `
namespace: drama.
flags:
  - key: drama.quest.rank
    kind: enum
    variants: [none, bronze, silver, gold]
  - key: drama.gold
    kind: int
    min: 0
    max: 99999
  - key: drama.met_guide
    kind: bool
    doc: Set after the first talk with the guide.
`

func TestLoadYAML(t *testing.T) {
	reg, err := LoadYAML(strings.NewReader(schemaYAML))
	require.NoError(t, err)

	assert.Equal(t, "drama.", reg.Namespace())
	defs := reg.Definitions()
	require.Len(t, defs, 3)
	assert.Equal(t, "drama.quest.rank", defs[0].Key)
	assert.Equal(t, KindEnum, defs[0].Kind)
	assert.Equal(t, KindInt, defs[1].Kind)
	require.NotNil(t, defs[1].Max)
	assert.Equal(t, 99999, *defs[1].Max)
	assert.Equal(t, KindBool, defs[2].Kind)
}

func TestLoadYAML_Errors(t *testing.T) {
	tests := map[string]string{
		"Unknown Kind":  "flags:\n  - key: drama.x\n    kind: float\n",
		"Duplicate Key": "flags:\n  - key: drama.x\n    kind: bool\n  - key: drama.x\n    kind: int\n",
		"Unknown Field": "flags:\n  - key: drama.x\n    kind: bool\n    colour: red\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadYAML(strings.NewReader(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadYAML_DefaultNamespace(t *testing.T) {
	reg, err := LoadYAML(strings.NewReader("flags: []\n"))
	require.NoError(t, err)
	assert.Equal(t, DefaultNamespace, reg.Namespace())
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flags.yaml")
	require.NoError(t, os.WriteFile(path, []byte(schemaYAML), 0o644))

	reg, err := FileSource{Path: path}.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, reg.Definitions(), 3)

	_, err = FileSource{Path: filepath.Join(t.TempDir(), "missing.yaml")}.Load(context.Background())
	assert.Error(t, err)
}

func TestRegistry_MarshalJSON(t *testing.T) {
	reg, err := LoadYAML(strings.NewReader(schemaYAML))
	require.NoError(t, err)

	data, err := json.Marshal(reg)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"kind":"enum"`)
	assert.Contains(t, string(data), `"namespace":"drama."`)

	var doc Document
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Len(t, doc.Flags, 3)
	assert.Equal(t, KindInt, doc.Flags[1].Kind)
}

func TestParseKind(t *testing.T) {
	for _, name := range []string{"enum", "int", "bool", "string", " Enum "} {
		_, err := ParseKind(name)
		assert.NoError(t, err, name)
	}
	_, err := ParseKind("float")
	assert.Error(t, err)
}
