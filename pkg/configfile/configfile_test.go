package configfile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type doc struct {
	Items []struct {
		ID string `json:"id" yaml:"id"`
	} `json:"items" yaml:"items"`
}

func TestDecodeByExtension(t *testing.T) {
	var y doc
	require.NoError(t, Decode([]byte("items:\n  - id: a\n"), ".YML", &y))
	require.Len(t, y.Items, 1)
	assert.Equal(t, "a", y.Items[0].ID)

	var j doc
	require.NoError(t, Decode([]byte(`{"items":[{"id":"b"}]}`), ".json", &j))
	assert.Equal(t, "b", j.Items[0].ID)
}

func TestDecodeUnknownExtensionTriesAll(t *testing.T) {
	var d doc
	require.NoError(t, Decode([]byte(`{"items":[{"id":"c"}]}`), ".conf", &d))
	assert.Equal(t, "c", d.Items[0].ID)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	var d doc
	err := Decode([]byte("items: [unclosed"), ".yaml", &d)
	assert.True(t, errors.Is(err, ErrUnrecognized))
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.yaml")
	require.NoError(t, os.WriteFile(path, []byte("items:\n  - id: z\n"), 0o644))

	var d doc
	require.NoError(t, Load(path, &d))
	assert.Equal(t, "z", d.Items[0].ID)

	assert.Error(t, Load("", &d))
	assert.Error(t, Load(filepath.Join(t.TempDir(), "missing.yaml"), &d))
}
