package shader

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/oxy-gpu/common"
	"github.com/gogpu/naga"
)

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.Mutex

	// fetch reads the raw bytes of a shader file or URL.
	fetch func(ctx context.Context, path string) ([]byte, error)

	// validate compiles every processed source offline before it is returned.
	validate bool

	// sources caches processed sources keyed by the path they were loaded from.
	sources map[string]string
}

// Loader reads WGSL shader sources and resolves their @import directives.
//
// Each imported file is included at most once per loaded shader, so diamond-shaped imports do
// not produce duplicate declarations. Import cycles are reported as errors.
type Loader interface {
	// Load returns the processed source of the shader at path, reading it on first use and
	// serving it from the cache afterwards.
	//
	// Parameters:
	//   - ctx: the context bounding any network fetches
	//   - path: a file path or http(s) URL
	//
	// Returns:
	//   - string: the WGSL source with every @import replaced by the imported file
	//   - error: an error if a file could not be read, a directive is malformed, imports form a cycle, or validation failed
	Load(ctx context.Context, path string) (string, error)

	// Process resolves the @import directives of an in-memory source. Relative imports are
	// resolved against path, which is also used in error messages. The result is not cached.
	//
	// Parameters:
	//   - ctx: the context bounding any network fetches
	//   - path: the path the source is considered to live at
	//   - source: the raw WGSL source
	//
	// Returns:
	//   - string: the processed source
	//   - error: an error as for Load
	Process(ctx context.Context, path, source string) (string, error)

	// Invalidate drops the cached source for path, forcing the next Load to read it again.
	//
	// Parameters:
	//   - path: the shader path to drop
	Invalidate(path string)

	// Len returns the number of cached sources.
	Len() int
}

var _ Loader = &loader{}

// NewLoader creates a Loader reading shaders through common.FetchBytes.
//
// Parameters:
//   - options: a variadic list of options to configure the loader
//
// Returns:
//   - Loader: the loader
func NewLoader(options ...LoaderBuilderOption) Loader {
	l := &loader{
		fetch:   common.FetchBytes,
		sources: make(map[string]string),
	}
	for _, opt := range options {
		opt(l)
	}
	return l
}

func (l *loader) Load(ctx context.Context, path string) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if src, ok := l.sources[path]; ok {
		return src, nil
	}

	raw, err := l.fetch(ctx, path)
	if err != nil {
		return "", err
	}
	src, err := l.process(ctx, path, string(raw))
	if err != nil {
		return "", err
	}

	l.sources[path] = src
	return src, nil
}

func (l *loader) Process(ctx context.Context, path, source string) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.process(ctx, path, source)
}

func (l *loader) Invalidate(path string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.sources, path)
}

func (l *loader) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.sources)
}

func (l *loader) process(ctx context.Context, path, source string) (string, error) {
	included := map[string]bool{path: true}
	out, err := l.expand(ctx, path, source, []string{path}, included)
	if err != nil {
		return "", err
	}

	if l.validate {
		if _, err := naga.Compile(out); err != nil {
			return "", fmt.Errorf("shader %s failed validation: %w", path, err)
		}
	}
	return out, nil
}

// expand replaces every @import line of source with the expanded source of the imported file.
// stack holds the chain of files currently being expanded; included holds every file already
// emitted for this shader.
func (l *loader) expand(ctx context.Context, path, source string, stack []string, included map[string]bool) (string, error) {
	lines := strings.Split(source, "\n")
	out := make([]string, 0, len(lines))

	for i, line := range lines {
		rel, err := parseImport(line, i+1)
		if err != nil {
			return "", fmt.Errorf("%s: %w", path, err)
		}
		if rel == "" {
			out = append(out, line)
			continue
		}

		target, err := resolveImport(path, rel)
		if err != nil {
			return "", fmt.Errorf("%s: line %d: %w", path, i+1, err)
		}
		for _, p := range stack {
			if p == target {
				return "", fmt.Errorf("%s: line %d: import cycle: %s -> %s", path, i+1, strings.Join(stack, " -> "), target)
			}
		}
		if included[target] {
			continue
		}
		included[target] = true

		raw, err := l.fetch(ctx, target)
		if err != nil {
			return "", fmt.Errorf("%s: line %d: %w", path, i+1, err)
		}
		expanded, err := l.expand(ctx, target, string(raw), append(stack, target), included)
		if err != nil {
			return "", err
		}
		out = append(out, expanded)
	}
	return strings.Join(out, "\n"), nil
}
