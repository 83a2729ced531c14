package render_target

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-deferred/common"
	"github.com/cogentcore/webgpu/wgpu"
)

// renderTarget is the implementation of the RenderTarget interface.
type renderTarget struct {
	label         string
	width, height int
	colorFormats  []wgpu.TextureFormat
	depthFormat   wgpu.TextureFormat
	usage         wgpu.TextureUsage

	colors []Attachment
	depth  Attachment
}

// RenderTarget is an offscreen framebuffer: an ordered set of colour attachments and an optional
// depth attachment, all the same size. Attachment count, order and formats never change after creation.
type RenderTarget interface {
	// Label returns the debug label of the target.
	//
	// Returns:
	//   - string: the label
	Label() string

	// Width returns the width in pixels shared by every attachment.
	//
	// Returns:
	//   - int: the width
	Width() int

	// Height returns the height in pixels shared by every attachment.
	//
	// Returns:
	//   - int: the height
	Height() int

	// ColorAttachments returns the colour attachments in attachment order.
	//
	// Returns:
	//   - []Attachment: the colour attachments
	ColorAttachments() []Attachment

	// ColorAttachment returns the colour attachment at index i, or nil if out of range.
	//
	// Parameters:
	//   - i: the attachment index
	//
	// Returns:
	//   - Attachment: the attachment or nil
	ColorAttachment(i int) Attachment

	// ColorFormats returns the colour formats in attachment order.
	//
	// Returns:
	//   - []wgpu.TextureFormat: the formats
	ColorFormats() []wgpu.TextureFormat

	// DepthAttachment returns the depth attachment, or nil if the target has none.
	//
	// Returns:
	//   - Attachment: the depth attachment or nil
	DepthAttachment() Attachment

	// Release frees every attachment. Safe to call more than once.
	Release()
}

var _ RenderTarget = &renderTarget{}

// NewRenderTarget allocates every attachment of a render target through alloc. If any allocation
// fails the attachments created so far are released and a *common.ResourceCreationError is returned.
//
// Parameters:
//   - alloc: the allocator creating the textures
//   - label: debug label, used as a prefix for attachment labels
//   - width: width in pixels, must be > 0
//   - height: height in pixels, must be > 0
//   - opts: functional options selecting the colour and depth formats
//
// Returns:
//   - RenderTarget: the allocated target
//   - error: error if the size is invalid or any allocation fails
func NewRenderTarget(alloc Allocator, label string, width, height int, opts ...RenderTargetBuilderOption) (RenderTarget, error) {
	rt := &renderTarget{
		label:       label,
		width:       width,
		height:      height,
		depthFormat: wgpu.TextureFormatUndefined,
		usage:       wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageTextureBinding,
	}
	for _, opt := range opts {
		opt(rt)
	}

	if width <= 0 || height <= 0 {
		return nil, common.NewResourceCreationError(label, fmt.Errorf("invalid size %dx%d", width, height))
	}
	if len(rt.colorFormats) == 0 && rt.depthFormat == wgpu.TextureFormatUndefined {
		return nil, common.NewResourceCreationError(label, errors.New("no attachments requested"))
	}

	for i, format := range rt.colorFormats {
		a, err := alloc.CreateAttachment(AttachmentDescriptor{
			Label:  fmt.Sprintf("%s_color%d", label, i),
			Width:  width,
			Height: height,
			Format: format,
			Usage:  rt.usage,
		})
		if err != nil {
			rt.Release()
			return nil, common.NewResourceCreationError(fmt.Sprintf("%s colour attachment %d", label, i), err)
		}
		rt.colors = append(rt.colors, a)
	}

	if rt.depthFormat != wgpu.TextureFormatUndefined {
		a, err := alloc.CreateAttachment(AttachmentDescriptor{
			Label:  label + "_depth",
			Width:  width,
			Height: height,
			Format: rt.depthFormat,
			Usage:  rt.usage,
		})
		if err != nil {
			rt.Release()
			return nil, common.NewResourceCreationError(label+" depth attachment", err)
		}
		rt.depth = a
	}

	common.Logger().Debug("render target allocated",
		"label", label, "width", width, "height", height,
		"colors", len(rt.colors), "depth", rt.depth != nil)
	return rt, nil
}

func (rt *renderTarget) Label() string {
	return rt.label
}

func (rt *renderTarget) Width() int {
	return rt.width
}

func (rt *renderTarget) Height() int {
	return rt.height
}

func (rt *renderTarget) ColorAttachments() []Attachment {
	return rt.colors
}

func (rt *renderTarget) ColorAttachment(i int) Attachment {
	if i < 0 || i >= len(rt.colors) {
		return nil
	}
	return rt.colors[i]
}

func (rt *renderTarget) ColorFormats() []wgpu.TextureFormat {
	return rt.colorFormats
}

func (rt *renderTarget) DepthAttachment() Attachment {
	return rt.depth
}

func (rt *renderTarget) Release() {
	for _, a := range rt.colors {
		a.Release()
	}
	rt.colors = nil
	if rt.depth != nil {
		rt.depth.Release()
		rt.depth = nil
	}
}
