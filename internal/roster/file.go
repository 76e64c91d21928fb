package roster

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadTeam reads a team from a YAML roster file and validates it.
func LoadTeam(path string) (Team, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Team{}, fmt.Errorf("read roster: %w", err)
	}
	return ParseTeam(b)
}

func ParseTeam(b []byte) (Team, error) {
	var t Team
	if err := yaml.Unmarshal(b, &t); err != nil {
		return Team{}, fmt.Errorf("%w: %v", ErrInvalidRoster, err)
	}
	if err := t.Validate(); err != nil {
		return Team{}, err
	}
	return t, nil
}
