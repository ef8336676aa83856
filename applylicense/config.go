// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package applylicense

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"go.astrophena.name/applylicense/copyright"
	"go.astrophena.name/applylicense/license"
	"go.astrophena.name/applylicense/years"
)

// DefaultSelection is the copyright holder key applied when a keyed
// configuration is used without an explicit selection.
const DefaultSelection = "seecr"

// ErrNoCopyrights is returned when a configuration selects no copyright
// holders.
var ErrNoCopyrights = errors.New("no copyrights configured")

// ErrInvalidHolder is returned by [Config.Registry] for a holder whose
// copyright line cannot be read back: the name must be non-empty without
// surrounding spaces, and the URL must start with http:// or https://.
var ErrInvalidHolder = errors.New("invalid copyright holder")

// Config is a project configuration.
type Config struct {
	Project     string     `json:"project"`
	Description string     `json:"description,omitempty"`
	License     string     `json:"license"`
	Copyrights  Copyrights `json:"copyrights"`
	// Exclude holds doublestar patterns of paths to leave alone, relative to
	// each walked directory.
	Exclude []string `json:"exclude,omitempty"`
}

// Holder is a configured copyright holder.
type Holder struct {
	Name string `json:"name"`
	URL  string `json:"url"`
	Text string `json:"text,omitempty"`
	// Years is accepted for compatibility and ignored.
	Years any `json:"years,omitempty"`
}

// Copyrights is either a list of holders, all of which apply, or a set of
// holders keyed by a short name, of which a selection applies.
type Copyrights struct {
	List  []Holder
	Keyed map[string]Holder
}

// UnmarshalJSON implements [json.Unmarshaler].
func (c *Copyrights) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.HasPrefix(b, []byte("[")):
		*c = Copyrights{}
		return json.Unmarshal(b, &c.List)
	case bytes.HasPrefix(b, []byte("{")):
		*c = Copyrights{}
		return json.Unmarshal(b, &c.Keyed)
	case bytes.Equal(b, []byte("null")):
		*c = Copyrights{}
		return nil
	}
	return fmt.Errorf("copyrights must be a list or an object, got %s", b)
}

// MarshalJSON implements [json.Marshaler].
func (c Copyrights) MarshalJSON() ([]byte, error) {
	if c.Keyed != nil {
		return json.Marshal(c.Keyed)
	}
	return json.Marshal(c.List)
}

// LoadConfig reads a configuration file. The format is picked by extension:
// .yaml and .yml are YAML, .toml is TOML and everything else is JSON.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := ParseConfig(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig parses a configuration in the format named by ext.
func ParseConfig(data []byte, ext string) (*Config, error) {
	var raw any
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
	case ".toml":
		var m map[string]any
		if err := toml.Unmarshal(data, &m); err != nil {
			return nil, err
		}
		raw = m
	default:
		return decodeJSON(data)
	}
	// YAML and TOML are re-encoded as JSON to share field names and the
	// Copyrights union.
	b, err := json.Marshal(raw)
	if err != nil {
		return nil, err
	}
	return decodeJSON(b)
}

func decodeJSON(data []byte) (*Config, error) {
	cfg := new(Config)
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Template returns the license template named by the configuration.
func (c *Config) Template() (license.Template, error) {
	return license.New(c.License, c.Project, c.Description)
}

// Holders returns the holders that apply for selection, a comma-separated
// list of keys. An empty selection means [DefaultSelection]. The selection is
// ignored for list configurations.
func (c *Config) Holders(selection string) ([]Holder, error) {
	if c.Copyrights.List == nil && c.Copyrights.Keyed == nil {
		return nil, ErrNoCopyrights
	}
	if c.Copyrights.List != nil {
		if len(c.Copyrights.List) == 0 {
			return nil, ErrNoCopyrights
		}
		return slices.Clone(c.Copyrights.List), nil
	}

	if selection == "" {
		selection = DefaultSelection
	}
	var holders []Holder
	for key := range strings.SplitSeq(selection, ",") {
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		h, ok := c.Copyrights.Keyed[key]
		if !ok {
			return nil, fmt.Errorf("no copyright holder %q configured", key)
		}
		holders = append(holders, h)
	}
	if len(holders) == 0 {
		return nil, ErrNoCopyrights
	}
	return holders, nil
}

// Registry returns the selected holders stamped with year.
func (c *Config) Registry(year int, selection string) (*copyright.Registry, error) {
	holders, err := c.Holders(selection)
	if err != nil {
		return nil, err
	}
	recs := make([]copyright.Record, 0, len(holders))
	for _, h := range holders {
		rec := copyright.Record{
			Name:  h.Name,
			URL:   h.URL,
			Years: years.Of(year),
			Text:  h.Text,
		}
		// A line that does not read back would be dropped on the next run,
		// losing the years recorded in it.
		got, err := copyright.ParseLine(rec.Line())
		if err != nil || got.Name != rec.Name || got.URL != rec.URL {
			return nil, fmt.Errorf("%w: name %q, url %q", ErrInvalidHolder, h.Name, h.URL)
		}
		recs = append(recs, rec)
	}
	return copyright.NewRegistry(recs...), nil
}
