package bind_group_provider

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
)

func TestNewBindGroupProviderDefaults(t *testing.T) {
	p := NewBindGroupProvider("floor_mesh")
	if p.Label() != "floor_mesh" {
		t.Errorf("Label() = %q", p.Label())
	}
	if p.Mesh().IndexFormat != wgpu.IndexFormatUint16 {
		t.Errorf("IndexFormat = %v, want uint16", p.Mesh().IndexFormat)
	}

	q := NewBindGroupProvider("wide", WithIndexFormat(wgpu.IndexFormatUint32))
	if q.Mesh().IndexFormat != wgpu.IndexFormatUint32 {
		t.Errorf("WithIndexFormat not applied")
	}
}

func TestSetMeshKeepsFormatWhenUnset(t *testing.T) {
	p := NewBindGroupProvider("box_flat", WithIndexFormat(wgpu.IndexFormatUint32))
	p.SetMesh(MeshBuffers{IndexCount: 36})
	if got := p.Mesh(); got.IndexCount != 36 || got.IndexFormat != wgpu.IndexFormatUint32 {
		t.Errorf("Mesh() = %+v, want 36 uint32 indices", got)
	}

	p.SetMesh(MeshBuffers{IndexCount: 6, IndexFormat: wgpu.IndexFormatUint16})
	if p.Mesh().IndexFormat != wgpu.IndexFormatUint16 {
		t.Errorf("explicit format not applied")
	}
}

func TestReleaseClearsBorrowedViews(t *testing.T) {
	p := NewBindGroupProvider("lighting")
	p.SetBorrowedTextureView(0, nil)
	p.SetTextureView(1, nil)
	p.SetMesh(MeshBuffers{IndexCount: 6})

	p.Release()

	if len(p.TextureViews()) != 0 {
		t.Errorf("texture views not cleared: %v", p.TextureViews())
	}
	if m := p.Mesh(); p.BindGroup() != nil || m.Vertex != nil || m.Index != nil {
		t.Errorf("GPU handles should be nil after Release")
	}
	if p.Mesh().IndexCount != 6 {
		t.Errorf("IndexCount = %d, Release must not reset draw metadata", p.Mesh().IndexCount)
	}

	p.Release()
}
