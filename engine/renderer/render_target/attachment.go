package render_target

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// AttachmentDescriptor describes a 2D texture to be allocated as a render attachment.
type AttachmentDescriptor struct {
	Label  string
	Width  int
	Height int
	Format wgpu.TextureFormat
	Usage  wgpu.TextureUsage
}

// attachment is the implementation of the Attachment interface.
type attachment struct {
	desc    AttachmentDescriptor
	texture *wgpu.Texture
	view    *wgpu.TextureView
}

// Attachment is a single allocated texture plus the default view used to render into and sample from it.
type Attachment interface {
	// Label returns the debug label the attachment was created with.
	//
	// Returns:
	//   - string: the label
	Label() string

	// Texture returns the underlying GPU texture.
	//
	// Returns:
	//   - *wgpu.Texture: the texture, nil for attachments created without GPU backing
	Texture() *wgpu.Texture

	// View returns the default texture view.
	//
	// Returns:
	//   - *wgpu.TextureView: the view
	View() *wgpu.TextureView

	// Format returns the texel format.
	//
	// Returns:
	//   - wgpu.TextureFormat: the format
	Format() wgpu.TextureFormat

	// Width returns the attachment width in pixels.
	//
	// Returns:
	//   - int: the width
	Width() int

	// Height returns the attachment height in pixels.
	//
	// Returns:
	//   - int: the height
	Height() int

	// Release frees the view and texture. Safe to call more than once.
	Release()
}

var _ Attachment = &attachment{}

// NewAttachment wraps an allocated texture and view.
//
// Parameters:
//   - desc: the descriptor the texture was created from
//   - texture: the GPU texture
//   - view: the default view of the texture
//
// Returns:
//   - Attachment: the wrapped attachment
func NewAttachment(desc AttachmentDescriptor, texture *wgpu.Texture, view *wgpu.TextureView) Attachment {
	return &attachment{
		desc:    desc,
		texture: texture,
		view:    view,
	}
}

// Allocator creates GPU attachments. The renderer implements it; tests substitute a fake.
type Allocator interface {
	// CreateAttachment allocates a texture and its default view.
	//
	// Parameters:
	//   - desc: the texture description
	//
	// Returns:
	//   - Attachment: the allocated attachment
	//   - error: error if the texture or view could not be created
	CreateAttachment(desc AttachmentDescriptor) (Attachment, error)
}

func (a *attachment) Label() string {
	return a.desc.Label
}

func (a *attachment) Texture() *wgpu.Texture {
	return a.texture
}

func (a *attachment) View() *wgpu.TextureView {
	return a.view
}

func (a *attachment) Format() wgpu.TextureFormat {
	return a.desc.Format
}

func (a *attachment) Width() int {
	return a.desc.Width
}

func (a *attachment) Height() int {
	return a.desc.Height
}

func (a *attachment) Release() {
	if a.view != nil {
		a.view.Release()
		a.view = nil
	}
	if a.texture != nil {
		a.texture.Release()
		a.texture = nil
	}
}
