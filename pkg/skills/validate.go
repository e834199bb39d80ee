package skills

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Validate checks that the SKILL.md under dir is a bundle an assistant's
// skill installer would accept: the markdown parses, the frontmatter is
// strict YAML with no unknown keys, and name and description are present.
// All violations are reported at once.
func Validate(dir string) error {
	var errs *multierror.Error

	path := filepath.Join(dir, skillFileName)
	content, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(err, "no readable %s in %s", skillFileName, dir)
	}

	raw, found := frontmatterBlock(string(content))
	if !found {
		return errors.Errorf("%s: missing YAML frontmatter", path)
	}

	metadata := &Metadata{}
	decoder := yaml.NewDecoder(bytes.NewReader([]byte(raw)))
	decoder.KnownFields(true)
	if err := decoder.Decode(metadata); err != nil {
		errs = multierror.Append(errs, errors.Wrapf(err, "%s: invalid frontmatter", path))
	} else {
		if metadata.Name == "" {
			errs = multierror.Append(errs, errors.Errorf("%s: frontmatter is missing 'name'", path))
		}
		if metadata.Description == "" {
			errs = multierror.Append(errs, errors.Errorf("%s: frontmatter is missing 'description'", path))
		}
		if metadata.Name != "" && metadata.Name != filepath.Base(dir) {
			errs = multierror.Append(errs, errors.Errorf(
				"%s: skill name %q does not match directory name %q",
				path, metadata.Name, filepath.Base(dir)))
		}
	}

	if _, err := LoadSkill(path); err != nil {
		errs = multierror.Append(errs, err)
	}

	return errs.ErrorOrNil()
}

// FindSkillDirs walks root and returns every directory containing a SKILL.md.
func FindSkillDirs(root string) ([]string, error) {
	var dirs []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() && (info.Name() == ".git" || info.Name() == "node_modules") {
			return filepath.SkipDir
		}
		if !info.IsDir() && info.Name() == skillFileName {
			dirs = append(dirs, filepath.Dir(path))
		}
		return nil
	})
	return dirs, err
}

// frontmatterBlock returns the raw YAML between the leading "---" fences.
func frontmatterBlock(content string) (string, bool) {
	if !strings.HasPrefix(content, "---") {
		return "", false
	}
	lines := strings.Split(content, "\n")
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			return strings.Join(lines[1:i], "\n"), true
		}
	}
	return "", false
}
