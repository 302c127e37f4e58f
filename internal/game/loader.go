package game

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

type profilesFile struct {
	Profiles []yaml.Node `yaml:"profiles"`
}

// LoadProfiles reads a YAML file of profile definitions into the registry.
// An entry whose name matches an existing profile is decoded on top of it, so
// an override only needs the fields it changes.
func (r *Registry) LoadProfiles(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read profiles file: %w", err)
	}

	var file profilesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse profiles file %s: %w", path, err)
	}

	for i := range file.Profiles {
		node := &file.Profiles[i]

		var head struct {
			Name string `yaml:"name"`
		}
		if err := node.Decode(&head); err != nil {
			return fmt.Errorf("profile entry %d: %w", i, err)
		}

		base, ok := r.profiles[strings.ToLower(strings.TrimSpace(head.Name))]
		if !ok {
			base = Profile{}
		}
		if err := node.Decode(&base); err != nil {
			return fmt.Errorf("profile entry %d (%s): %w", i, head.Name, err)
		}
		if err := r.Register(base); err != nil {
			return fmt.Errorf("profile entry %d: %w", i, err)
		}

		log.Debug().Str("game", base.Name).Bool("override", ok).Msg("Loaded game profile")
	}
	return nil
}
