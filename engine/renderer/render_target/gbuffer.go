package render_target

import (
	"github.com/Carmen-Shannon/oxy-deferred/common"
	"github.com/cogentcore/webgpu/wgpu"
)

const (
	// GBufferAlbedoIndex is the colour attachment holding surface colour.
	GBufferAlbedoIndex = 0
	// GBufferNormalIndex is the colour attachment holding the encoded world-space normal.
	GBufferNormalIndex = 1

	// GBufferColorFormat is the format of both GBuffer colour attachments.
	GBufferColorFormat = wgpu.TextureFormatRGBA8Unorm
	// GBufferDepthFormat is the format of the GBuffer depth attachment.
	GBufferDepthFormat = wgpu.TextureFormatDepth32Float
)

// gBuffer is the implementation of the GBuffer interface.
type gBuffer struct {
	RenderTarget
}

// GBuffer is the geometry buffer written by the geometry pass and read by the lighting and debug
// passes: an albedo and a normal colour attachment plus a depth attachment.
type GBuffer interface {
	RenderTarget

	// Albedo returns colour attachment GBufferAlbedoIndex.
	//
	// Returns:
	//   - Attachment: the albedo attachment
	Albedo() Attachment

	// Normal returns colour attachment GBufferNormalIndex.
	//
	// Returns:
	//   - Attachment: the normal attachment
	Normal() Attachment

	// Sampler describes how readers must sample the GBuffer: nearest filtering, clamp-to-edge.
	//
	// Returns:
	//   - common.SamplerStagingData: the sampler description
	Sampler() common.SamplerStagingData
}

var _ GBuffer = &gBuffer{}

// NewGBuffer allocates the GBuffer at the drawable size. It is never resized.
//
// Parameters:
//   - alloc: the allocator creating the textures
//   - width: drawable width in pixels
//   - height: drawable height in pixels
//
// Returns:
//   - GBuffer: the allocated GBuffer
//   - error: a *common.ResourceCreationError if any attachment could not be created
func NewGBuffer(alloc Allocator, width, height int) (GBuffer, error) {
	rt, err := NewRenderTarget(alloc, "gbuffer", width, height,
		WithColorFormats(GBufferColorFormat, GBufferColorFormat),
		WithDepthFormat(GBufferDepthFormat),
	)
	if err != nil {
		return nil, err
	}
	common.Logger().Info("gbuffer allocated", "width", width, "height", height)
	return &gBuffer{RenderTarget: rt}, nil
}

func (g *gBuffer) Albedo() Attachment {
	return g.ColorAttachment(GBufferAlbedoIndex)
}

func (g *gBuffer) Normal() Attachment {
	return g.ColorAttachment(GBufferNormalIndex)
}

func (g *gBuffer) Sampler() common.SamplerStagingData {
	return common.NearestClampSampler()
}
