// Package parser turns pattern documents and the source ledger into records.
package parser

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Frontmatter represents parsed frontmatter data.
type Frontmatter struct {
	// Fields are the decoded YAML keys.
	Fields map[string]interface{}

	// Raw is the raw frontmatter content.
	Raw string
}

// FrontmatterBounds returns the opening and closing frontmatter line indices.
// It only detects frontmatter when the first line is '---'.
// If frontmatter is present but unclosed, endLine is -1.
func FrontmatterBounds(lines []string) (startLine int, endLine int, ok bool) {
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != "---" {
		return 0, -1, false
	}

	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			return 0, i, true
		}
	}

	return 0, -1, true
}

// SplitFrontmatter separates a leading YAML block from the markdown body.
//
// It returns nil when there is no closed frontmatter block. A block that is
// not valid YAML is not frontmatter: the whole content is returned as the
// body (it may be a thematic break) along with the decode error.
func SplitFrontmatter(content string) (*Frontmatter, string, error) {
	lines := strings.Split(content, "\n")

	_, endLine, ok := FrontmatterBounds(lines)
	if !ok || endLine == -1 {
		return nil, content, nil
	}

	fm := &Frontmatter{Raw: strings.Join(lines[1:endLine], "\n")}
	body := strings.Join(lines[endLine+1:], "\n")

	var fields map[string]interface{}
	if err := yaml.Unmarshal([]byte(fm.Raw), &fields); err != nil {
		return nil, content, fmt.Errorf("failed to parse frontmatter as YAML: %w", err)
	}
	if fields == nil {
		fields = map[string]interface{}{}
	}
	fm.Fields = fields

	return fm, body, nil
}

// String returns the string value of key, or "" when absent or not a scalar.
func (fm *Frontmatter) String(key string) string {
	if fm == nil || fm.Fields == nil {
		return ""
	}
	switch v := fm.Fields[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case fmt.Stringer:
		return strings.TrimSpace(v.String())
	default:
		return ""
	}
}
