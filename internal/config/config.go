// Package config loads project configuration and discovers style documents.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"bennypowers.dev/stylenorm/internal/log"
	"bennypowers.dev/stylenorm/internal/sheet"
	"bennypowers.dev/stylenorm/internal/tokens"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/maruel/natural"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned for configuration files that cannot be decoded
var ErrInvalidConfig = errors.New("invalid configuration")

// Files are the configuration file locations, relative to the project root,
// in lookup order
var Files = []string{
	".config/stylenorm.yaml",
	".config/stylenorm.yml",
	".config/stylenorm.json",
}

// AutoDiscoverPatterns find style documents when Include is empty:
//   - *.style.json, *.style.jsonc
//   - *.style.yaml, *.style.yml
var AutoDiscoverPatterns = []string{
	"**/*.style.json",
	"**/*.style.jsonc",
	"**/*.style.yaml",
	"**/*.style.yml",
}

// DefaultExclude is always applied on top of Exclude
var DefaultExclude = []string{
	"**/node_modules/**",
	"**/.git/**",
}

// Config is the project configuration
type Config struct {
	// Include are glob patterns of style documents, relative to the root.
	// Empty means AutoDiscoverPatterns.
	Include []string `yaml:"include"`

	// Exclude are glob patterns removed from the included documents
	Exclude []string `yaml:"exclude"`

	// Tokens are design-token files loaded for every document
	Tokens []string `yaml:"tokens"`

	// GroupMarkers are token names that can also be groups
	GroupMarkers []string `yaml:"groupMarkers"`

	// ClassPrefix is prepended to generated class identifiers
	ClassPrefix string `yaml:"classPrefix"`

	// Out is the CSS file written by the build command, relative to the root.
	// Empty writes to stdout.
	Out string `yaml:"out"`

	// LogLevel is one of debug, info, warn or error
	LogLevel string `yaml:"logLevel"`

	// Validate checks emitted CSS with a CSS parser
	Validate bool `yaml:"validate"`
}

// DefaultConfig returns the configuration used when no file is present
func DefaultConfig() Config {
	return Config{
		GroupMarkers: []string{"_", "@", "DEFAULT"},
		LogLevel:     "info",
	}
}

// Load reads the first configuration file found under root. A project without
// one gets DefaultConfig. The returned path is empty in that case.
func Load(root string) (Config, string, error) {
	for _, name := range Files {
		filename := filepath.Join(root, filepath.FromSlash(name))
		data, err := os.ReadFile(filename)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return Config{}, "", fmt.Errorf("failed to read config file: %w", err)
		}
		cfg, err := Parse(data, filename)
		if err != nil {
			return Config{}, "", err
		}
		log.Debug("Loaded configuration from %s", filename)
		return cfg, filename, nil
	}
	return DefaultConfig(), "", nil
}

// Parse decodes configuration data over DefaultConfig. JSON files may carry
// comments and trailing commas. Unknown fields are an error.
func Parse(data []byte, filename string) (Config, error) {
	if strings.EqualFold(filepath.Ext(filename), ".json") {
		data = jsonc.ToJSON(data)
	}

	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, filename, err)
	}

	if _, err := log.ParseLevel(cfg.LogLevel); err != nil {
		return Config{}, fmt.Errorf("%w: %s: %w", ErrInvalidConfig, filename, err)
	}
	for _, pattern := range append(append([]string{}, cfg.Include...), cfg.Exclude...) {
		if !doublestar.ValidatePattern(pattern) {
			return Config{}, fmt.Errorf("%w: %s: bad glob pattern %q", ErrInvalidConfig, filename, pattern)
		}
	}
	return cfg, nil
}

// Patterns returns the include patterns in effect
func (c Config) Patterns() []string {
	if len(c.Include) == 0 {
		return AutoDiscoverPatterns
	}
	return c.Include
}

// Excluded reports whether the slash-separated relative path is excluded
func (c Config) Excluded(rel string) bool {
	rel = filepath.ToSlash(rel)
	for _, pattern := range append(append([]string{}, DefaultExclude...), c.Exclude...) {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return false
}

// Discover returns the style documents under root matched by the
// configuration, in natural order
func (c Config) Discover(root string) ([]string, error) {
	fsys := os.DirFS(root)
	seen := map[string]bool{}
	var found []string

	for _, pattern := range c.Patterns() {
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("failed to discover documents with %q: %w", pattern, err)
		}
		for _, rel := range matches {
			if seen[rel] || c.Excluded(rel) {
				continue
			}
			seen[rel] = true
			found = append(found, rel)
		}
	}

	sort.Sort(natural.StringSlice(found))
	paths := make([]string, len(found))
	for i, rel := range found {
		paths[i] = filepath.Join(root, filepath.FromSlash(rel))
	}
	log.Debug("Discovered %d style documents under %s", len(paths), root)
	return paths, nil
}

// SheetOptions returns compilation options for documents under root
func (c Config) SheetOptions(root string) sheet.Options {
	files := make([]string, len(c.Tokens))
	for i, p := range c.Tokens {
		if !filepath.IsAbs(p) {
			p = filepath.Join(root, p)
		}
		files[i] = p
	}
	return sheet.Options{
		ClassPrefix: c.ClassPrefix,
		TokenFiles:  files,
		Tokens:      tokens.Options{GroupMarkers: c.GroupMarkers},
		Validate:    c.Validate,
	}
}

// OutPath resolves Out against root. It is empty when Out is.
func (c Config) OutPath(root string) string {
	if c.Out == "" || filepath.IsAbs(c.Out) {
		return c.Out
	}
	return filepath.Join(root, c.Out)
}
