package shader

import "context"

// LoaderBuilderOption is a functional option used to configure a Loader during construction.
type LoaderBuilderOption func(*loader)

// WithValidation enables offline WGSL validation of every processed source.
//
// Parameters:
//   - validate: true to validate sources before returning them
//
// Returns:
//   - LoaderBuilderOption: a function that sets the validation flag
func WithValidation(validate bool) LoaderBuilderOption {
	return func(l *loader) {
		l.validate = validate
	}
}

// WithFetcher replaces the function used to read shader files and URLs.
//
// Parameters:
//   - fetch: the function returning the raw contents of a path
//
// Returns:
//   - LoaderBuilderOption: a function that sets the fetcher
func WithFetcher(fetch func(ctx context.Context, path string) ([]byte, error)) LoaderBuilderOption {
	return func(l *loader) {
		l.fetch = fetch
	}
}
