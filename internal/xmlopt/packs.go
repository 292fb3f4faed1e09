package xmlopt

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pronghorn-cli/pronghorn/internal/errors"
	"gopkg.in/yaml.v3"
)

// Pack is a user-supplied mapping pack layered over the builtin tables.
type Pack struct {
	Name          string            `yaml:"name"`
	Description   string            `yaml:"description,omitempty"`
	Tags          map[string]string `yaml:"tags,omitempty"`
	Phrases       map[string]string `yaml:"phrases,omitempty"`
	Abbreviations map[string]string `yaml:"abbreviations,omitempty"`
}

// Mappings converts the pack tables to a Mappings value.
func (p *Pack) Mappings() Mappings {
	return Mappings{
		Tags:          p.Tags,
		Phrases:       p.Phrases,
		Abbreviations: p.Abbreviations,
	}
}

// LoadPack reads a single mapping pack from a YAML file.
func LoadPack(path string) (*Pack, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.PackInvalid(path, err)
	}

	var pack Pack
	if err := yaml.Unmarshal(data, &pack); err != nil {
		return nil, errors.PackInvalid(path, err)
	}

	if pack.Name == "" {
		pack.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	return &pack, nil
}

// LoadPacksDir loads all .yaml/.yml packs in a directory, sorted by filename
// so layering order is deterministic. A missing directory is not an error.
func LoadPacksDir(dir string) ([]*Pack, error) {
	if dir == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext == ".yaml" || ext == ".yml" {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)

	var packs []*Pack
	for _, name := range names {
		pack, err := LoadPack(filepath.Join(dir, name))
		if err != nil {
			return nil, err
		}
		packs = append(packs, pack)
	}
	return packs, nil
}

// LoadMappings builds the effective mapping tables from the builtin set
// plus packs from each directory, in the order given (later dirs win).
func LoadMappings(dirs ...string) (Mappings, []*Pack, error) {
	merged := BuiltinMappings()
	var all []*Pack
	for _, dir := range dirs {
		packs, err := LoadPacksDir(dir)
		if err != nil {
			return merged, all, err
		}
		for _, pack := range packs {
			merged = Merge(merged, pack.Mappings())
			all = append(all, pack)
		}
	}
	return merged, all, nil
}
