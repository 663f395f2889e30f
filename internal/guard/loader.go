package guard

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LoadRegoFiles reads the policy modules in dir, keyed by file name.
// Rego unit tests (*_test.rego) are skipped.
func LoadRegoFiles(dir string) (map[string]string, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.rego"))
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("policy bundle %s: %w", dir, err)
	}

	modules := make(map[string]string, len(paths))
	for _, p := range paths {
		name := filepath.Base(p)
		if strings.HasSuffix(name, "_test.rego") {
			continue
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read policy %s: %w", name, err)
		}
		modules[name] = string(data)
	}
	return modules, nil
}
