// Package skills handles the instructional bundles this repository packages:
// directories containing a SKILL.md file with YAML frontmatter describing
// the skill's name and purpose. It discovers bundles for listing and
// validates that a bundle is well-formed enough to be installed by an
// assistant's skill installer.
package skills

// Skill represents a discovered skill bundle
type Skill struct {
	Name        string // Unique name from frontmatter
	Description string // Brief description shown in listings
	Directory   string // Full path to the skill directory
	Content     string // Body of SKILL.md with the frontmatter stripped
}

// Metadata is the YAML frontmatter of a SKILL.md file
type Metadata struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}
