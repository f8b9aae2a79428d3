package selector

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadProfiles reads platform profiles from a YAML file, keyed by profile
// name. Profiles in the file replace built-in ones of the same name, so
// selector drift on a platform can be fixed without a rebuild.
func LoadProfiles(path string) (map[string]Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("selector: read profiles: %w", err)
	}

	var raw struct {
		Profiles []Profile `yaml:"profiles"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("selector: parse profiles: %w", err)
	}

	out := make(map[string]Profile, len(raw.Profiles))
	for _, p := range raw.Profiles {
		if p.Name == "" {
			return nil, fmt.Errorf("selector: profile without a name in %s", path)
		}
		out[p.Name] = p
	}
	return out, nil
}
