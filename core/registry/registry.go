// Package registry maps model names to the gateway driver that serves them.
//
// A Registry is loaded once, from a JSON or YAML mapping file or from the
// built-in table, and is read-only afterwards.
package registry

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultDriver serves models missing from the registry.
const DefaultDriver = "openai-completion"

// Format is the encoding of a mapping file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ErrUnknownFormat is returned for mapping files whose extension is neither
// .json, .yaml nor .yml.
var ErrUnknownFormat = errors.New("registry: unknown mapping file format")

//go:embed models.yaml
var builtinModels []byte

// Registry is a read-only model→driver mapping. It is safe for concurrent use.
type Registry struct {
	drivers map[string]string
	names   []string
}

// New builds a Registry from drivers. The map is copied.
func New(drivers map[string]string) *Registry {
	r := &Registry{drivers: make(map[string]string, len(drivers))}
	for name, driver := range drivers {
		r.drivers[name] = driver
		r.names = append(r.names, name)
	}
	slices.Sort(r.names)
	return r
}

// Builtin returns the registry compiled into the module.
func Builtin() *Registry {
	r, err := Parse(builtinModels, FormatYAML)
	if err != nil {
		panic(fmt.Sprintf("registry: invalid built-in table: %v", err))
	}
	return r
}

// Parse decodes a mapping document in the given format.
func Parse(data []byte, format Format) (*Registry, error) {
	drivers := map[string]string{}
	var err error
	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, &drivers)
	case FormatYAML:
		err = yaml.Unmarshal(data, &drivers)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("registry: decode %s mapping: %w", format, err)
	}

	for name, driver := range drivers {
		if strings.TrimSpace(name) == "" || strings.TrimSpace(driver) == "" {
			return nil, fmt.Errorf("registry: empty model name or driver in entry %q: %q", name, driver)
		}
	}
	return New(drivers), nil
}

// FormatFromPath infers the mapping format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

// LoadFile reads and decodes the mapping file at path.
func LoadFile(path string) (*Registry, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("registry: read %s: %w", path, err)
	}
	return Parse(data, format)
}

// Driver returns the driver registered for model.
func (r *Registry) Driver(model string) (string, bool) {
	driver, ok := r.drivers[model]
	return driver, ok
}

// DriverOrDefault returns the driver registered for model, or [DefaultDriver].
func (r *Registry) DriverOrDefault(model string) string {
	if driver, ok := r.drivers[model]; ok {
		return driver
	}
	return DefaultDriver
}

// Has reports whether model is registered.
func (r *Registry) Has(model string) bool {
	_, ok := r.drivers[model]
	return ok
}

// Names returns the registered model names in sorted order.
func (r *Registry) Names() []string {
	return slices.Clone(r.names)
}

// Len returns the number of registered models.
func (r *Registry) Len() int {
	return len(r.names)
}
