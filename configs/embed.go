package configs

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
)

//go:embed fixtures/*.yaml
var embeddedFixtures embed.FS

// DefaultFixture is the fixture served when no fixture path is configured
const DefaultFixture = "expenses.yaml"

// FixtureNames returns the embedded fixture filenames
func FixtureNames() []string {
	entries, err := fs.Glob(embeddedFixtures, "fixtures/*.yaml")
	if err != nil {
		return nil
	}
	sort.Strings(entries)
	return entries
}

// LoadFixture returns an embedded fixture by filename
func LoadFixture(name string) ([]byte, error) {
	if name == "" {
		return nil, fmt.Errorf("embedded fixture name is empty")
	}
	data, err := fs.ReadFile(embeddedFixtures, "fixtures/"+name)
	if err != nil {
		return nil, fmt.Errorf("read embedded fixture %q: %w", name, err)
	}
	return data, nil
}
