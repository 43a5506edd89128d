package recipe

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/conn-castle/tool-layer/internal/messages"
	"github.com/conn-castle/tool-layer/internal/platform"
	"github.com/conn-castle/tool-layer/internal/repotrust"
)

// declFile is the on-disk shape of one recipe declaration site.
type declFile struct {
	Recipes []declRecipe `toml:"recipe" yaml:"recipes"`
}

type declRecipe struct {
	Name     string              `toml:"name" yaml:"name"`
	Provides []string            `toml:"provides" yaml:"provides"`
	Depends  []string            `toml:"depends" yaml:"depends"`
	Packages map[string][]string `toml:"packages" yaml:"packages"`
	Source   *Source             `toml:"source" yaml:"source"`
	Pin      string              `toml:"pin" yaml:"pin"`
	Binary   string              `toml:"binary" yaml:"binary"`
	Repo     *declRepo           `toml:"repo_requirement" yaml:"repo_requirement"`
}

type declRepo struct {
	Name        string   `toml:"name" yaml:"name"`
	KeyURL      string   `toml:"key_url" yaml:"key_url"`
	KeyringPath string   `toml:"keyring_path" yaml:"keyring_path"`
	SourceLine  string   `toml:"source_line" yaml:"source_line"`
	SourcePath  string   `toml:"source_path" yaml:"source_path"`
	Families    []string `toml:"families" yaml:"families"`
}

// LoadDir reads every .toml, .yaml, and .yml declaration file directly under
// dir and registers the recipes into reg. Files are declaration sites merged
// into one registry; duplicate identical declarations across files are fine.
func LoadDir(reg *Registry, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch filepath.Ext(entry.Name()) {
		case ".toml", ".yaml", ".yml":
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		if err := LoadFile(reg, filepath.Join(dir, name)); err != nil {
			return err
		}
	}
	return nil
}

// LoadFile parses one declaration file and registers its recipes.
func LoadFile(reg *Registry, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf(messages.RecipeLoadFileFmt, path, err)
	}

	var file declFile
	switch filepath.Ext(path) {
	case ".toml":
		err = decodeTOML(data, &file)
	case ".yaml", ".yml":
		err = decodeYAML(data, &file)
	default:
		return fmt.Errorf(messages.RecipeUnknownFormatFmt, path)
	}
	if err != nil {
		return fmt.Errorf(messages.RecipeParseFileFmt, path, err)
	}

	for _, decl := range file.Recipes {
		if err := reg.Register(decl.toRecipe()); err != nil {
			return fmt.Errorf(messages.RecipeParseFileFmt, path, err)
		}
	}
	return nil
}

// decodeTOML decodes with strict unknown-field rejection. A typo'd key is a
// load error, not a silently dropped field.
func decodeTOML(data []byte, file *declFile) error {
	decoder := toml.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()
	return decoder.Decode(file)
}

// decodeYAML mirrors decodeTOML for the YAML declaration format. An empty
// document is a valid declaration site with no recipes.
func decodeYAML(data []byte, file *declFile) error {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(file); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// toRecipe converts the declaration shape into the validated model.
func (d declRecipe) toRecipe() Recipe {
	r := Recipe{
		Name:     strings.TrimSpace(d.Name),
		Provides: d.Provides,
		Depends:  d.Depends,
		Source:   d.Source,
		Pin:      strings.TrimSpace(d.Pin),
		Binary:   strings.TrimSpace(d.Binary),
	}
	if len(d.Packages) > 0 {
		r.PackageNames = make(map[platform.Manager][]string, len(d.Packages))
		for manager, packages := range d.Packages {
			r.PackageNames[platform.Manager(manager)] = packages
		}
	}
	if d.Repo != nil {
		families := make([]platform.OSFamily, 0, len(d.Repo.Families))
		for _, family := range d.Repo.Families {
			families = append(families, platform.OSFamily(family))
		}
		r.RepoRequirement = &repotrust.Descriptor{
			Name:               d.Repo.Name,
			KeyURL:             d.Repo.KeyURL,
			KeyringPath:        d.Repo.KeyringPath,
			SourceLineTemplate: d.Repo.SourceLine,
			SourcePath:         d.Repo.SourcePath,
			Families:           families,
		}
	}
	return r
}
