package parser

import (
	"fmt"
	"strings"
)

// Wildcard is the marker character that may prefix or decorate a name.
const Wildcard = '*'

// InvalidNameError reports why a sheet or column name was rejected.
type InvalidNameError struct {
	Name string
	// Char is the first disallowed character; zero when the name is empty.
	Char rune
}

func (e *InvalidNameError) Error() string {
	if e.Name == "" {
		return "empty name"
	}
	return fmt.Sprintf("name %q contains disallowed character %q", e.Name, e.Char)
}

// CheckName returns an *InvalidNameError unless name is non-empty and made
// only of A-Z, a-z, 0-9, '-' and '_', plus '*' when allowWildcard is set.
func CheckName(name string, allowWildcard bool) error {
	if name == "" {
		return &InvalidNameError{Name: name}
	}
	for _, c := range name {
		switch {
		case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		case c == '-' || c == '_':
		case c == Wildcard && allowWildcard:
		default:
			return &InvalidNameError{Name: name, Char: c}
		}
	}
	return nil
}

// ValidName reports whether CheckName accepts name.
func ValidName(name string, allowWildcard bool) bool {
	return CheckName(name, allowWildcard) == nil
}

// StripWildcards removes every wildcard marker from s.
func StripWildcards(s string) string {
	return strings.ReplaceAll(s, string(Wildcard), "")
}

var unsafeFileChars = strings.NewReplacer(
	"/", "_", "\\", "_", ":", "_", "?", "_", "\"", "_",
	"<", "_", ">", "_", "|", "_", " ", "_",
	string(Wildcard), "",
)

// OutputName turns a sheet name into a file name: path and shell
// metacharacters and spaces become '_', wildcards are dropped, and ext is
// appended.
func OutputName(sheetName, ext string) string {
	return unsafeFileChars.Replace(sheetName) + ext
}
