package permission

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefault(t *testing.T) {
	cases := map[string]Default{
		"deny":     DefaultDeny,
		" Allow ":  DefaultAllow,
		"op":       DefaultOperator,
		"OPERATOR": DefaultOperator,
		"true":     DefaultAllow,
		"false":    DefaultDeny,
	}
	for input, want := range cases {
		got, err := ParseDefault(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}
	_, err := ParseDefault("maybe")
	assert.ErrorIs(t, err, ErrUnknownDefault)
}

func TestDefaultResolve(t *testing.T) {
	assert.False(t, DefaultDeny.Resolve(true))
	assert.True(t, DefaultAllow.Resolve(false))
	assert.True(t, DefaultOperator.Resolve(true))
	assert.False(t, DefaultOperator.Resolve(false))

	var d Default
	require.NoError(t, d.UnmarshalText([]byte("op")))
	assert.Equal(t, DefaultOperator, d)
	b, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "op", string(b))
}

func TestTristateBool(t *testing.T) {
	assert.True(t, True.Bool(false))
	assert.False(t, False.Bool(true))
	assert.True(t, Undefined.Bool(true))
	assert.False(t, Undefined.Bool(false))
	assert.Equal(t, True, Of(true))
	assert.Equal(t, False, Of(false))
}

func TestValidNode(t *testing.T) {
	valid := []string{"bluemap", "bluemap.admin", "bluemap.*", "*", "minecraft:command.give", "a-b_c.d2"}
	for _, node := range valid {
		assert.True(t, ValidNode(node), node)
	}
	invalid := []string{"", ".", "bluemap.", ".bluemap", "blue..map", "BlueMap.admin", "blue map"}
	for _, node := range invalid {
		assert.False(t, ValidNode(node), node)
	}
}

func TestSetLookup(t *testing.T) {
	s := NewSet("bluemap.admin", "bluemap.render.*", "-bluemap.render.all", "Not A Node")
	assert.Equal(t, 3, s.Len())

	assert.Equal(t, True, s.Lookup("bluemap.admin"))
	assert.Equal(t, True, s.Lookup("BlueMap:Admin"))
	assert.Equal(t, Undefined, s.Lookup("bluemap.reload"))
	assert.Equal(t, True, s.Lookup("bluemap.render.world"))
	assert.Equal(t, False, s.Lookup("bluemap.render.all"))
	assert.Equal(t, Undefined, s.Lookup(""))
}

func TestStoreWildcardsAndDenials(t *testing.T) {
	s := NewStore()
	_, err := s.Grant("Steve", "bluemap.*")
	require.NoError(t, err)
	_, err = s.Deny("steve", "bluemap.reload")
	require.NoError(t, err)

	assert.Equal(t, True, s.Lookup("STEVE", "bluemap.render"))
	assert.Equal(t, False, s.Lookup("steve", "bluemap.reload"))
	assert.Equal(t, Undefined, s.Lookup("steve", "worldedit.wand"))
	assert.Equal(t, Undefined, s.Lookup("alex", "bluemap.render"))

	changed, err := s.Unset("steve", "bluemap.reload")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, True, s.Lookup("steve", "bluemap.reload"))

	changed, err = s.Unset("steve", "bluemap.reload")
	require.NoError(t, err)
	assert.False(t, changed)

	_, err = s.Grant("", "bluemap.admin")
	assert.ErrorIs(t, err, ErrInvalidSubject)
	_, err = s.Grant("steve", "bad node")
	assert.ErrorIs(t, err, ErrInvalidNode)
}

func TestStorePersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "permissions.toml")
	s, err := LoadStore(path)
	require.NoError(t, err)
	_, err = os.Stat(path)
	require.NoError(t, err, "store file should be created on load")

	added, err := s.Grant("Alex", "bluemap.render")
	require.NoError(t, err)
	assert.True(t, added)
	added, err = s.Grant("alex", "bluemap.render")
	require.NoError(t, err)
	assert.False(t, added)
	_, err = s.Deny("Alex", "bluemap.reload")
	require.NoError(t, err)
	_, err = s.SetOperator("Notch", true)
	require.NoError(t, err)

	reloaded, err := LoadStore(path)
	require.NoError(t, err)
	assert.Equal(t, True, reloaded.Lookup("alex", "bluemap.render"))
	assert.Equal(t, False, reloaded.Lookup("alex", "bluemap.reload"))
	assert.True(t, reloaded.Operator("notch"))
	assert.False(t, reloaded.Operator("alex"))
	assert.Equal(t, []string{"Notch"}, reloaded.Operators())

	removed, err := reloaded.SetOperator("NOTCH", false)
	require.NoError(t, err)
	assert.True(t, removed)
	require.NoError(t, s.Reload())
	assert.False(t, s.Operator("notch"))
}

func TestStoreRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "permissions.toml")
	require.NoError(t, os.WriteFile(path, []byte("operators = [\n"), 0o644))
	_, err := LoadStore(path)
	assert.Error(t, err)
}

func TestNilStore(t *testing.T) {
	var s *Store
	assert.Equal(t, Undefined, s.Lookup("steve", "bluemap.admin"))
	assert.False(t, s.Operator("steve"))
}
