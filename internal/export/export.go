// Package export writes the shell snippet that puts installed tools
// on PATH.
package export

import (
	"fmt"
	"os"
	"strings"
)

// Line turns a KEY=VALUE assignment into a shell export statement.
// The value is double-quoted, so references like $PATH expand when
// the snippet is sourced.
func Line(assignment string) string {
	key, value, _ := strings.Cut(assignment, "=")
	return fmt.Sprintf("export %s=%q", key, value)
}

// Render joins assignments into a sourceable script.
func Render(vars []string) string {
	var b strings.Builder
	for _, v := range vars {
		b.WriteString(Line(v))
		b.WriteByte('\n')
	}
	return b.String()
}

// WriteFile writes the script for a set of assignments.
func WriteFile(path string, vars []string) error {
	if err := os.WriteFile(path, []byte(Render(vars)), 0o644); err != nil {
		return fmt.Errorf("write export file: %w", err)
	}
	return nil
}
