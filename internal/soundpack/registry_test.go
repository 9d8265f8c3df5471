package soundpack

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuiltin_CoversBothKinds(t *testing.T) {
	packs := Builtin()
	require.GreaterOrEqual(t, len(packs), 6, "expected at least 6 built-in packs")

	kinds := map[Kind]int{}
	seen := map[string]bool{}
	for _, p := range packs {
		require.NoError(t, p.Validate())
		require.False(t, seen[p.ID], "duplicate pack id %s", p.ID)
		require.Equal(t, SourceBuiltIn, p.Source)
		seen[p.ID] = true
		kinds[p.Kind]++
	}
	require.Positive(t, kinds[KindTone])
	require.Positive(t, kinds[KindPercussion])
	require.Equal(t, DefaultID, packs[0].ID, "classic is listed first")
}

func TestRegistry_GetUnknown(t *testing.T) {
	r := Default()

	_, err := r.Get("nonexistent")
	var unknown *UnknownSoundPackError
	require.True(t, errors.As(err, &unknown))
	require.Equal(t, "nonexistent", unknown.ID)
	require.Equal(t, `unknown sound pack "nonexistent"`, err.Error())

	// Callers substitute the default pack.
	require.Equal(t, DefaultID, r.GetOrDefault("nonexistent").ID)
}

func TestRegistry_ListIsStable(t *testing.T) {
	r := Default()
	first := r.List()
	second := r.List()
	require.Equal(t, first, second)

	builtin := Builtin()
	require.Len(t, first, len(builtin))
	for i := range builtin {
		require.Equal(t, builtin[i].ID, first[i].ID)
	}
}

func TestRegistry_ListReturnsCopy(t *testing.T) {
	r := Default()
	list := r.List()
	list[0].Name = "mutated"

	p, err := r.Get(DefaultID)
	require.NoError(t, err)
	require.Equal(t, "Classic", p.Name)
}

func TestRegistry_UserOverrideKeepsPosition(t *testing.T) {
	override := testPack("retro")
	override.Name = "My Retro"
	override.Source = SourceUser

	r, err := NewRegistry(append(Builtin(), override, testPack("extra"))...)
	require.NoError(t, err)

	list := r.List()
	require.Equal(t, "retro", list[1].ID)
	require.Equal(t, "My Retro", list[1].Name)
	require.Equal(t, SourceUser, list[1].Source)
	require.Equal(t, "extra", list[len(list)-1].ID)
}

func TestRegistry_RequiresDefault(t *testing.T) {
	_, err := NewRegistry(testPack("only"))
	require.Error(t, err)
	require.Contains(t, err.Error(), "default pack")
}

func TestRegistry_RejectsInvalid(t *testing.T) {
	bad := testPack("classic")
	bad.Frequencies[2] = 0
	_, err := NewRegistry(bad)
	require.Error(t, err)
}

func TestRegistry_Next(t *testing.T) {
	r := Default()
	list := r.List()

	require.Equal(t, list[1].ID, r.Next(list[0].ID).ID)
	require.Equal(t, list[0].ID, r.Next(list[len(list)-1].ID).ID, "wraps around")
	require.Equal(t, list[0].ID, r.Next("missing").ID)
}

func TestPack_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *Pack)
		wantErr string
	}{
		{"valid", func(p *Pack) {}, ""},
		{"missing id", func(p *Pack) { p.ID = "" }, "id is required"},
		{"unknown kind", func(p *Pack) { p.Kind = "choir" }, "unknown kind"},
		{"unknown waveform", func(p *Pack) { p.Waveform = "noise" }, "unknown waveform"},
		{"percussion ignores waveform", func(p *Pack) { p.Kind = KindPercussion; p.Waveform = "" }, ""},
		{"negative frequency", func(p *Pack) { p.Frequencies[0] = -1 }, "must be > 0"},
		{"bad color", func(p *Pack) { p.Colors[3] = "blue" }, "not #RRGGBB"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testPack("x")
			tt.mutate(&p)
			err := p.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSource_String(t *testing.T) {
	require.Equal(t, "built-in", SourceBuiltIn.String())
	require.Equal(t, "user", SourceUser.String())
	require.Equal(t, "unknown", Source(9).String())
}

func TestLoadUserPacks(t *testing.T) {
	dir := t.TempDir()

	single := `
id: chimes
name: Chimes
kind: tone
waveform: triangle
frequencies: [880, 987.77, 1174.66, 1318.51]
colors: ["#FFFFFF", "#EEEEEE", "#DDDDDD", "#CCCCCC"]
`
	list := `
packs:
  - id: tabla
    name: Tabla
    kind: percussion
    frequencies: [90, 140, 210, 300]
    colors: ["#111111", "#222222", "#333333", "#444444"]
`
	broken := `
id: broken
kind: tone
waveform: sine
frequencies: [1, 2, 3]
colors: ["#111111", "#222222", "#333333", "#444444"]
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b-chimes.yaml"), []byte(single), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a-tabla.yml"), []byte(list), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "c-broken.yaml"), []byte(broken), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0600))

	packs, err := LoadUserPacks(dir)
	require.NoError(t, err)
	require.Len(t, packs, 2)
	require.Equal(t, "tabla", packs[0].ID)
	require.Equal(t, "chimes", packs[1].ID)
	for _, p := range packs {
		require.Equal(t, SourceUser, p.Source)
	}
}

func TestLoadUserPacks_MissingDir(t *testing.T) {
	packs, err := LoadUserPacks(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	require.Empty(t, packs)

	packs, err = LoadUserPacks("")
	require.NoError(t, err)
	require.Empty(t, packs)
}

func testPack(id string) Pack {
	return Pack{
		ID:          id,
		Name:        "Test " + id,
		Kind:        KindTone,
		Waveform:    WaveSine,
		Frequencies: [ButtonCount]float64{100, 200, 300, 400},
		Colors:      [ButtonCount]string{"#000000", "#111111", "#222222", "#333333"},
	}
}

func TestRegistry_DefaultPack(t *testing.T) {
	r := Default()
	require.Equal(t, DefaultID, r.DefaultPack().ID)
}
