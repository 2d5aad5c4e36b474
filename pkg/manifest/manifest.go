// Package manifest reads declarative link files: sets of source roots whose
// subdirectories are linked into a target root, and explicit single links.
//
// A manifest may be TOML or YAML:
//
//	[defaults]
//	create_source = true
//
//	[[sets]]
//	source = "./user"
//	target = "~"
//	overwrite = true
//
//	[[links]]
//	source = "~/dotfiles/pip"
//	target = "~/.pip"
//
// Paths may start with ~ and may reference environment variables as $VAR or
// ${VAR}; unset variables expand to the empty string. Relative paths are
// resolved against the manifest's directory. Paths given on the command line
// get ~ expansion only.
//
// Every target is claimed by at most one entry. Two [[links]] with the same
// target make the manifest invalid. Otherwise sets are processed before
// links, each in file order, and the first entry to claim a target wins; a
// later pair for the same target fails without touching the disk.
package manifest

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/charlie0129/linkman/pkg/linker"
	"github.com/charlie0129/linkman/pkg/validation"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported manifest format, use .toml, .yaml or .yml")
	ErrNoManifest        = errors.New("no manifest found")
	ErrEmptyPath         = errors.New("source and target must both be set")
)

// Defaults apply to every entry that does not set its own value.
type Defaults struct {
	CreateSource bool `toml:"create_source" yaml:"create_source"`
	Overwrite    bool `toml:"overwrite" yaml:"overwrite"`
}

// Entry is either a set (Source and Target are roots) or a single link.
type Entry struct {
	Source       string `toml:"source" yaml:"source"`
	Target       string `toml:"target" yaml:"target"`
	CreateSource *bool  `toml:"create_source,omitempty" yaml:"create_source,omitempty"`
	Overwrite    *bool  `toml:"overwrite,omitempty" yaml:"overwrite,omitempty"`
}

type Manifest struct {
	Defaults Defaults `toml:"defaults" yaml:"defaults"`
	Sets     []Entry  `toml:"sets" yaml:"sets"`
	Links    []Entry  `toml:"links" yaml:"links"`

	// dir is where relative paths are resolved from.
	dir string
}

var defaultNames = []string{"links.toml", "links.yaml", "links.yml"}

// DefaultPath returns the first manifest found under the XDG config
// directories, e.g. ~/.config/linkman/links.toml.
func DefaultPath() (string, error) {
	for _, name := range defaultNames {
		p, err := xdg.SearchConfigFile(filepath.Join("linkman", name))
		if err == nil {
			return p, nil
		}
	}
	return "", errors.Wrapf(ErrNoManifest, "looked for linkman/{%s} in %s", strings.Join(defaultNames, ","), xdg.ConfigHome)
}

// Load reads and validates the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read manifest %s", path)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to make %s absolute", path)
	}

	m, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse manifest %s", path)
	}
	m.dir = filepath.Dir(abs)

	return m, nil
}

// Parse decodes data according to ext (".toml", ".yaml" or ".yml").
// Relative paths in the result resolve against the working directory.
func Parse(data []byte, ext string) (*Manifest, error) {
	m := &Manifest{}

	var err error
	switch strings.ToLower(ext) {
	case ".toml":
		err = toml.Unmarshal(data, m)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, m)
	default:
		return nil, errors.Wrapf(ErrUnsupportedFormat, "got %q", ext)
	}
	if err != nil {
		return nil, err
	}

	if err := m.Validate(); err != nil {
		return nil, err
	}

	return m, nil
}

func (m *Manifest) Validate() error {
	for i, e := range m.Sets {
		if e.Source == "" || e.Target == "" {
			return errors.Wrapf(ErrEmptyPath, "sets[%d]", i)
		}
	}
	for i, e := range m.Links {
		if e.Source == "" || e.Target == "" {
			return errors.Wrapf(ErrEmptyPath, "links[%d]", i)
		}
	}
	return nil
}

func (m *Manifest) base() string {
	if m.dir != "" {
		return m.dir
	}
	wd, err := os.Getwd()
	if err != nil {
		return "."
	}
	return wd
}

// SetConfigs turns every set into a linker.Config with defaults applied and
// paths expanded.
func (m *Manifest) SetConfigs() ([]linker.Config, error) {
	confs := make([]linker.Config, 0, len(m.Sets))
	for i, e := range m.Sets {
		src, dst, err := m.expand(e)
		if err != nil {
			return nil, errors.Wrapf(err, "sets[%d]", i)
		}
		conf := linker.Config{
			SourceRoot:          src,
			TargetRoot:          dst,
			CreateMissingSource: pick(e.CreateSource, m.Defaults.CreateSource),
			Overwrite:           pick(e.Overwrite, m.Defaults.Overwrite),
		}
		if err := conf.Validate(); err != nil {
			return nil, errors.Wrapf(err, "sets[%d]", i)
		}
		confs = append(confs, conf)
	}
	return confs, nil
}

// LinkGroup is a run of explicit links sharing the same policy flags.
type LinkGroup struct {
	CreateMissingSource bool
	Overwrite           bool
	Pairs               []linker.Pair
}

// LinkGroups splits the explicit links into consecutive runs that share
// the same effective policy, so manifest order is kept across groups.
func (m *Manifest) LinkGroups() ([]LinkGroup, error) {
	var groups []LinkGroup
	seen := map[string]int{}

	for i, e := range m.Links {
		src, dst, err := m.expand(e)
		if err != nil {
			return nil, errors.Wrapf(err, "links[%d]", i)
		}
		if prev, ok := seen[dst]; ok {
			return nil, errors.Wrapf(linker.ErrInvalidMapping, "links[%d] and links[%d] both target %s", prev, i, dst)
		}
		seen[dst] = i

		create := pick(e.CreateSource, m.Defaults.CreateSource)
		overwrite := pick(e.Overwrite, m.Defaults.Overwrite)

		last := len(groups) - 1
		if last < 0 || groups[last].CreateMissingSource != create || groups[last].Overwrite != overwrite {
			groups = append(groups, LinkGroup{CreateMissingSource: create, Overwrite: overwrite})
			last++
		}
		groups[last].Pairs = append(groups[last].Pairs, linker.Pair{Source: src, Target: dst})
	}

	return groups, nil
}

func (m *Manifest) expand(e Entry) (string, string, error) {
	base := m.base()
	src, err := validation.ExpandPathRelativeTo(e.Source, base)
	if err != nil {
		return "", "", err
	}
	dst, err := validation.ExpandPathRelativeTo(e.Target, base)
	if err != nil {
		return "", "", err
	}
	return src, dst, nil
}

func pick(v *bool, def bool) bool {
	if v != nil {
		return *v
	}
	return def
}
