package texture

import "fmt"

// TextureErrorKind classifies why loading a texture failed.
type TextureErrorKind int

const (
	// TextureErrorIO means the texture source could not be read.
	TextureErrorIO TextureErrorKind = iota
	// TextureErrorImage means the source was read but could not be decoded as an image.
	TextureErrorImage
	// TextureErrorOther covers GPU-side failures such as texture creation or upload.
	TextureErrorOther
)

// TextureError is returned by texture loading functions. It wraps the underlying cause so
// errors.Is and errors.As see through it.
type TextureError struct {
	Kind TextureErrorKind
	Err  error
}

// NewTextureError wraps err in a TextureError of the given kind.
//
// Parameters:
//   - kind: the failure classification
//   - err: the underlying cause
//
// Returns:
//   - *TextureError: the wrapped error
func NewTextureError(kind TextureErrorKind, err error) *TextureError {
	return &TextureError{Kind: kind, Err: err}
}

func (e *TextureError) Error() string {
	switch e.Kind {
	case TextureErrorIO:
		return fmt.Sprintf("IO error: %v", e.Err)
	case TextureErrorImage:
		return fmt.Sprintf("Image error: %v", e.Err)
	default:
		return fmt.Sprintf("Other error: %v", e.Err)
	}
}

func (e *TextureError) Unwrap() error {
	return e.Err
}
