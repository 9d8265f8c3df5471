package soundpack

import (
	"embed"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/zjrosen/mimic/internal/log"
)

//go:embed catalog/packs.yaml
var catalogFS embed.FS

// packFile is the on-disk shape of a pack catalog.
type packFile struct {
	Packs []Pack `yaml:"packs"`
}

// Builtin returns the packs bundled with the binary in catalog order.
func Builtin() []Pack {
	f, err := catalogFS.Open("catalog/packs.yaml")
	if err != nil {
		panic(fmt.Sprintf("soundpack: embedded catalog missing: %v", err))
	}
	defer func() { _ = f.Close() }()

	packs, err := decode(f, SourceBuiltIn)
	if err != nil {
		panic(fmt.Sprintf("soundpack: embedded catalog invalid: %v", err))
	}
	return packs
}

// LoadUserPacks reads every *.yaml / *.yml file in dir. Each file holds either
// a single pack document or a `packs:` list. Files are read in name order.
// A missing directory yields no packs and no error; unreadable or invalid
// files are skipped with a warning so a bad pack never blocks startup.
func LoadUserPacks(dir string) ([]Pack, error) {
	if dir == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading sound packs directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if e.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	var packs []Pack
	for _, name := range names {
		path := filepath.Join(dir, name)
		loaded, err := loadFile(os.DirFS(dir), name)
		if err != nil {
			log.Warn(log.CatConfig, "skipping sound pack file", "path", path, "error", err.Error())
			continue
		}
		packs = append(packs, loaded...)
	}
	return packs, nil
}

func loadFile(fsys fs.FS, name string) ([]Pack, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return decode(f, SourceUser)
}

func decode(r io.Reader, source Source) ([]Pack, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var file packFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parsing packs: %w", err)
	}
	if len(file.Packs) == 0 {
		var single Pack
		if err := yaml.Unmarshal(data, &single); err != nil {
			return nil, fmt.Errorf("parsing pack: %w", err)
		}
		file.Packs = []Pack{single}
	}

	for i := range file.Packs {
		file.Packs[i].Source = source
		if err := file.Packs[i].Validate(); err != nil {
			return nil, err
		}
	}
	return file.Packs, nil
}
