package window

// WindowBuilderOption is a functional option for configuring a window before it is created.
type WindowBuilderOption func(c *config)

// WithTitle sets the window title.
//
// Parameters:
//   - title: the window title text
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithTitle(title string) WindowBuilderOption {
	return func(c *config) {
		c.title = title
	}
}

// WithWidth sets the requested window width. Values below 1 are raised to 1.
//
// Parameters:
//   - width: width in screen coordinates
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithWidth(width int) WindowBuilderOption {
	return func(c *config) {
		c.width = width
	}
}

// WithHeight sets the requested window height. Values below 1 are raised to 1.
//
// Parameters:
//   - height: height in screen coordinates
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithHeight(height int) WindowBuilderOption {
	return func(c *config) {
		c.height = height
	}
}

// WithResizable sets whether the user can resize the window. Defaults to true.
func WithResizable(resizable bool) WindowBuilderOption {
	return func(c *config) {
		c.resizable = resizable
	}
}

// WithCloseOnEscape sets whether pressing Escape closes the window. Defaults to true.
func WithCloseOnEscape(closeOnEscape bool) WindowBuilderOption {
	return func(c *config) {
		c.closeOnEscape = closeOnEscape
	}
}
