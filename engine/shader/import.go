// import.go defines the @import directive understood by the shader Loader. A directive is a
// single WGSL source line of the form
//
//	@import "relative/path.wgsl";
//
// where the trailing semicolon is optional. The path is resolved relative to the file containing
// the directive, and the directive line is replaced with the processed source of that file.
package shader

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
)

// importPrefix is the directive marker that starts an import line.
const importPrefix = "@import"

// parseImport attempts to parse a single line of WGSL source as an @import directive.
// Returns an empty path with no error for lines that are not directives.
//
// Parameters:
//   - line: the raw WGSL source line to parse
//   - lineNum: the 1-based line number for error reporting
//
// Returns:
//   - string: the imported path, or "" if the line is not a directive
//   - error: a descriptive error if the directive is malformed
func parseImport(line string, lineNum int) (string, error) {
	after, ok := strings.CutPrefix(strings.TrimSpace(line), importPrefix)
	if !ok {
		return "", nil
	}
	if after != "" && after[0] != ' ' && after[0] != '\t' && after[0] != '"' {
		// an identifier that merely starts with "@import"
		return "", nil
	}

	arg := strings.TrimSpace(after)
	arg = strings.TrimSpace(strings.TrimSuffix(arg, ";"))
	if arg == "" {
		return "", fmt.Errorf("line %d: @import requires a quoted path", lineNum)
	}

	p, err := strconv.Unquote(arg)
	if err != nil || !strings.HasPrefix(arg, `"`) {
		return "", fmt.Errorf("line %d: @import path %s must be a double-quoted string", lineNum, arg)
	}
	if p == "" {
		return "", fmt.Errorf("line %d: @import path is empty", lineNum)
	}
	return p, nil
}

// resolveImport resolves an imported path against the path of the importing file.
// URLs resolve like links, file paths relative to the importing file's directory.
//
// Parameters:
//   - base: the path or URL of the importing file
//   - rel: the path named in the directive
//
// Returns:
//   - string: the resolved path
//   - error: an error if a URL could not be parsed
func resolveImport(base, rel string) (string, error) {
	if isURL(rel) || filepath.IsAbs(rel) {
		return rel, nil
	}
	if isURL(base) {
		b, err := url.Parse(base)
		if err != nil {
			return "", fmt.Errorf("invalid shader URL %q: %w", base, err)
		}
		r, err := url.Parse(rel)
		if err != nil {
			return "", fmt.Errorf("invalid import path %q: %w", rel, err)
		}
		return b.ResolveReference(r).String(), nil
	}
	return filepath.Join(filepath.Dir(base), rel), nil
}

func isURL(p string) bool {
	return strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://")
}
