package bind_group

import (
	"fmt"
	"strings"

	"github.com/cogentcore/webgpu/wgpu"
)

// LayoutEntries is an ordered list of bind group layout entries. It is the identity of a bind group
// layout: two LayoutEntries describe the same layout iff their entries are element-wise equal.
// A LayoutEntries value is never mutated after it is handed out, so it is safe to use as a cache key.
type LayoutEntries struct {
	entries []wgpu.BindGroupLayoutEntry
	key     string
}

// NewLayoutEntries builds a LayoutEntries from a copy of the given entries.
//
// Parameters:
//   - entries: the layout entries in binding order
//
// Returns:
//   - LayoutEntries: the immutable entry list
func NewLayoutEntries(entries ...wgpu.BindGroupLayoutEntry) LayoutEntries {
	cp := make([]wgpu.BindGroupLayoutEntry, len(entries))
	copy(cp, entries)
	return LayoutEntries{entries: cp, key: layoutKey(cp)}
}

// Entries returns a copy of the layout entries.
//
// Returns:
//   - []wgpu.BindGroupLayoutEntry: the entries in binding order
func (l LayoutEntries) Entries() []wgpu.BindGroupLayoutEntry {
	cp := make([]wgpu.BindGroupLayoutEntry, len(l.entries))
	copy(cp, l.entries)
	return cp
}

// Len returns the number of entries.
func (l LayoutEntries) Len() int {
	return len(l.entries)
}

// Key returns the canonical string form of the entries. Equal entry lists have equal keys.
func (l LayoutEntries) Key() string {
	return l.key
}

// Equal reports whether both lists hold the same entries in the same order.
func (l LayoutEntries) Equal(other LayoutEntries) bool {
	return l.key == other.key
}

// Descriptor returns a layout descriptor for these entries.
//
// Parameters:
//   - label: the debug label for the layout
//
// Returns:
//   - wgpu.BindGroupLayoutDescriptor: the descriptor
func (l LayoutEntries) Descriptor(label string) wgpu.BindGroupLayoutDescriptor {
	return wgpu.BindGroupLayoutDescriptor{
		Label:   label,
		Entries: l.Entries(),
	}
}

func (l LayoutEntries) String() string {
	return "[" + l.key + "]"
}

// layoutKey encodes every field of every entry. Field order is fixed so the encoding is canonical.
func layoutKey(entries []wgpu.BindGroupLayoutEntry) string {
	var sb strings.Builder
	for i, e := range entries {
		if i > 0 {
			sb.WriteByte(';')
		}
		fmt.Fprintf(&sb, "%d:%d|b%d,%t,%d|s%d|t%d,%d,%t|st%d,%d,%d",
			e.Binding,
			e.Visibility,
			e.Buffer.Type,
			e.Buffer.HasDynamicOffset,
			e.Buffer.MinBindingSize,
			e.Sampler.Type,
			e.Texture.SampleType,
			e.Texture.ViewDimension,
			e.Texture.Multisampled,
			e.StorageTexture.Access,
			e.StorageTexture.Format,
			e.StorageTexture.ViewDimension,
		)
	}
	return sb.String()
}
