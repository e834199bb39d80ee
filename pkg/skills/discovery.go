package skills

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/yuin/goldmark"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/parser"
)

const skillFileName = "SKILL.md"

// Discovery finds skill bundles in configured directories
type Discovery struct {
	skillDirs []string
}

// Option configures a Discovery
type Option func(*Discovery) error

// WithSkillDirs sets custom skill directories
func WithSkillDirs(dirs ...string) Option {
	return func(d *Discovery) error {
		d.skillDirs = dirs
		return nil
	}
}

// WithDefaultDirs searches the repo-local skills directory first, then the
// user-global one.
func WithDefaultDirs() Option {
	return func(d *Discovery) error {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return errors.Wrap(err, "failed to get user home directory")
		}
		d.skillDirs = []string{
			"./skills",
			filepath.Join(homeDir, ".vbakit", "skills"),
		}
		return nil
	}
}

// NewDiscovery creates a skill discovery instance. Without options the
// default directories are used.
func NewDiscovery(opts ...Option) (*Discovery, error) {
	d := &Discovery{}

	if len(opts) == 0 {
		opts = []Option{WithDefaultDirs()}
	}
	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// DiscoverSkills finds every valid skill bundle in the configured
// directories. The first directory to define a name wins.
func (d *Discovery) DiscoverSkills() (map[string]*Skill, error) {
	skills := make(map[string]*Skill)
	for _, dir := range d.skillDirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			entryPath := filepath.Join(dir, entry.Name())

			// symlinked bundle dirs are allowed, so stat rather than
			// trusting the dirent type
			info, err := os.Stat(entryPath)
			if err != nil || !info.IsDir() {
				continue
			}

			skill, err := LoadSkill(filepath.Join(entryPath, skillFileName))
			if err != nil {
				continue
			}
			if _, exists := skills[skill.Name]; !exists {
				skill.Directory = entryPath
				skills[skill.Name] = skill
			}
		}
	}
	return skills, nil
}

// GetSkill returns a specific skill by name
func (d *Discovery) GetSkill(name string) (*Skill, error) {
	skills, err := d.DiscoverSkills()
	if err != nil {
		return nil, err
	}
	skill, exists := skills[name]
	if !exists {
		return nil, errors.Errorf("skill '%s' not found", name)
	}
	return skill, nil
}

// LoadSkill loads and validates a single SKILL.md file.
func LoadSkill(path string) (*Skill, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read skill file")
	}

	metadata, err := parseFrontmatter(content)
	if err != nil {
		return nil, err
	}
	if metadata.Name == "" {
		return nil, errors.New("skill name is required in frontmatter")
	}
	if metadata.Description == "" {
		return nil, errors.New("skill description is required in frontmatter")
	}

	return &Skill{
		Name:        metadata.Name,
		Description: metadata.Description,
		Content:     extractBodyContent(string(content)),
	}, nil
}

// parseFrontmatter runs the markdown through goldmark to make sure the
// document itself parses, then decodes the frontmatter into Metadata.
func parseFrontmatter(content []byte) (*Metadata, error) {
	md := goldmark.New(goldmark.WithExtensions(meta.Meta))

	var buf bytes.Buffer
	pctx := parser.NewContext()
	if err := md.Convert(content, &buf, parser.WithContext(pctx)); err != nil {
		return nil, errors.Wrap(err, "failed to parse markdown")
	}

	metaData := meta.Get(pctx)
	if metaData == nil {
		return nil, errors.New("missing frontmatter")
	}

	metadata := &Metadata{}
	metadata.Name, _ = metaData["name"].(string)
	metadata.Description, _ = metaData["description"].(string)
	return metadata, nil
}

// extractBodyContent removes the YAML frontmatter and returns the body
func extractBodyContent(content string) string {
	if !strings.HasPrefix(content, "---") {
		return content
	}

	lines := strings.Split(content, "\n")
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			return strings.TrimLeft(strings.Join(lines[i+1:], "\n"), "\n")
		}
	}
	return content
}
