package checksrvc

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// CheckType describes one pluggable black-box check program. The positional
// argument order is owned by the check type definition; the engine only
// substitutes values into the declared slots.
type CheckType struct {
	Name               string   `toml:"name"`
	Program            string   `toml:"program"`
	Args               []string `toml:"args"`
	RequiredProperties []string `toml:"required_properties"`
	TimeoutSeconds     int      `toml:"timeout_seconds"`
}

// Timeout returns the check type's own wall-clock limit, or fallback when
// the definition does not declare one.
func (ct CheckType) Timeout(fallback time.Duration) time.Duration {
	if ct.TimeoutSeconds > 0 {
		return time.Duration(ct.TimeoutSeconds) * time.Second
	}
	return fallback
}

// Registry holds the check types loaded from the definitions file.
type Registry struct {
	types map[string]CheckType
}

type registryFile struct {
	Checks []CheckType `toml:"check"`
}

// LoadRegistry reads check type definitions from a TOML file. Relative
// program paths are resolved against binDir when binDir is non-empty.
func LoadRegistry(path string, binDir string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read check definitions: %w", err)
	}
	return ParseRegistry(data, binDir)
}

func ParseRegistry(data []byte, binDir string) (*Registry, error) {
	var file registryFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse check definitions: %w", err)
	}

	types := make(map[string]CheckType, len(file.Checks))
	for _, ct := range file.Checks {
		if ct.Name == "" {
			return nil, fmt.Errorf("check definition without a name")
		}
		if ct.Program == "" {
			return nil, fmt.Errorf("check type %q has no program", ct.Name)
		}
		if _, ok := types[ct.Name]; ok {
			return nil, fmt.Errorf("duplicate check type %q", ct.Name)
		}
		if binDir != "" && !filepath.IsAbs(ct.Program) {
			ct.Program = filepath.Join(binDir, ct.Program)
		}
		types[ct.Name] = ct
	}
	return &Registry{types: types}, nil
}

func (r *Registry) Get(name string) (CheckType, error) {
	ct, ok := r.types[name]
	if !ok {
		return CheckType{}, ErrUnknownCheckType(name)
	}
	return ct, nil
}
