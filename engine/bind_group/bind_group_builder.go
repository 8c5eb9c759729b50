package bind_group

// BuilderOption is a functional option used to configure a Builder during construction.
type BuilderOption func(*Builder)

// WithLabel sets the debug label used for the compiled layout and bind group.
//
// Parameters:
//   - label: the debug label
//
// Returns:
//   - BuilderOption: a function that sets the label
func WithLabel(label string) BuilderOption {
	return func(b *Builder) {
		b.label = label
	}
}
