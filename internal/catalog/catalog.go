// Package catalog loads the static question and course content the
// assessment engine runs against. Content lives in YAML; a default catalog
// is compiled in and an operator can point CATALOG_PATH at a replacement.
package catalog

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/skillcompass/skillcompass-engine/internal/assessment"
)

//go:embed data/catalog.yaml
var defaultCatalog []byte

type catalogFile struct {
	General []assessment.Question                     `yaml:"general"`
	Roles   map[assessment.Role][]assessment.Question `yaml:"roles"`
	Courses map[string]assessment.Course              `yaml:"courses"`
}

// Default returns the embedded catalog.
func Default() (*assessment.Catalog, error) {
	return parse(defaultCatalog)
}

// LoadFile reads a catalog from a YAML file.
func LoadFile(path string) (*assessment.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	c, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return c, nil
}

func parse(data []byte) (*assessment.Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	c := &assessment.Catalog{
		General: f.General,
		Roles:   f.Roles,
		Courses: f.Courses,
	}
	if err := validate(c); err != nil {
		return nil, err
	}
	return c, nil
}

// validate enforces the invariants the engine assumes: exactly ten
// questions per set (two full batches of five), a set for every role in
// the closed role set, globally unique question ids, and every course
// reference resolvable. Batch slicing is only safe because of this.
func validate(c *assessment.Catalog) error {
	if n := len(c.General); n != assessment.QuestionsPerSet {
		return fmt.Errorf("general set has %d questions, want %d", n, assessment.QuestionsPerSet)
	}
	for _, role := range assessment.Roles {
		qs, ok := c.Roles[role]
		if !ok {
			return fmt.Errorf("missing question set for role %q", role)
		}
		if n := len(qs); n != assessment.QuestionsPerSet {
			return fmt.Errorf("role %q has %d questions, want %d", role, n, assessment.QuestionsPerSet)
		}
	}
	for role := range c.Roles {
		if !role.Valid() {
			return fmt.Errorf("question set for unknown role %q", role)
		}
	}

	seen := map[string]bool{}
	check := func(setName string, qs []assessment.Question) error {
		for _, q := range qs {
			if q.ID == "" {
				return fmt.Errorf("%s: question with empty id", setName)
			}
			if seen[q.ID] {
				return fmt.Errorf("%s: duplicate question id %q", setName, q.ID)
			}
			seen[q.ID] = true
			if q.Text == "" {
				return fmt.Errorf("%s: question %q has no text", setName, q.ID)
			}
			if q.Category == "" {
				return fmt.Errorf("%s: question %q has no category", setName, q.ID)
			}
			if _, ok := c.Courses[q.CourseRecommendation]; !ok {
				return fmt.Errorf("%s: question %q recommends unknown course %q", setName, q.ID, q.CourseRecommendation)
			}
		}
		return nil
	}
	if err := check("general", c.General); err != nil {
		return err
	}
	for role, qs := range c.Roles {
		if err := check(string(role), qs); err != nil {
			return err
		}
	}
	return nil
}
