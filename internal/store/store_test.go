package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/stripscript/internal/script"
)

var TestNames = []struct {
	Name  string
	Stem  string
	Valid bool
}{
	{"rainbow", "rainbow", true},
	{"slow fade", "slow_fade", true},
	{"v1.2", "v1.2", true},
	{"glow.json", "glow", true},
	{"", "", false},
	{"../etc/passwd", "", false},
	{"a/b", "", false},
	{".hidden", "", false},
	{"..", "", false},
}

func TestCleanNames(t *testing.T) {
	for _, tc := range TestNames {
		t.Run(tc.Name, func(t *testing.T) {
			stem, err := clean(tc.Name)
			if !tc.Valid {
				assert.ErrorIs(t, err, ErrInvalidName)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.Stem, stem)
		})
	}
}

func TestSaveAndList(t *testing.T) {
	s := New(t.TempDir())
	names, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, names)

	require.NoError(t, s.Save("b", map[string]any{"elements": []any{}}))
	require.NoError(t, s.SaveText("a", []byte(`{"name":"a","elements":[{"hue":10}]}`)))

	names, err = s.List()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names)

	doc, err := s.Read("a")
	require.NoError(t, err)
	assert.Equal(t, "a", doc["name"])
	_, err = os.Stat(filepath.Join(s.Dir(), "a.json"))
	assert.NoError(t, err)
}

func TestSaveTextAcceptsYAML(t *testing.T) {
	s := New(t.TempDir())
	text := "name: yaml\nelements:\n  - hue: 120\n    length: 50\n"
	require.NoError(t, s.SaveText("yaml", []byte(text)))

	doc, err := s.Read("yaml")
	require.NoError(t, err)
	el := doc["elements"].([]any)[0].(map[string]any)
	assert.Equal(t, 120.0, el["hue"])
}

func TestSaveTextRejectsNonObjects(t *testing.T) {
	s := New(t.TempDir())
	assert.ErrorIs(t, s.SaveText("list", []byte(`[1,2]`)), script.ErrNotObject)
	assert.Error(t, s.SaveText("bad", []byte("{")))
	names, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestLoadParsesScript(t *testing.T) {
	s := New(t.TempDir())
	require.NoError(t, s.SaveText("fade", []byte(`{"elements":[{"hue":10}]}`)))

	env := script.NewEnv(nil)
	env.Log = zerolog.Nop()
	sc, err := s.Load("fade", env)
	require.NoError(t, err)
	assert.Equal(t, "fade", sc.Name())
	assert.Len(t, sc.Elements(), 1)
}

func TestMissingAndDelete(t *testing.T) {
	s := New(t.TempDir())
	_, err := s.Read("gone")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, s.Delete("gone"))

	require.NoError(t, s.Save("here", map[string]any{}))
	require.NoError(t, s.Delete("here"))
	_, err = s.Read("here")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, s.Delete("../x"), ErrInvalidName)
}
