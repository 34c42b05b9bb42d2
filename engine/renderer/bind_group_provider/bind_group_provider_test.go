package bind_group_provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewBindGroupProviderKeepsLabel(t *testing.T) {
	p := NewBindGroupProvider("camera")
	assert.Equal(t, "camera", p.Label())
	assert.Empty(t, p.Buffers())
	assert.Empty(t, p.TextureViews())
	assert.Empty(t, p.Samplers())
	assert.Nil(t, p.BindGroup())
}

func TestBorrowedViewsAreForgottenOnRelease(t *testing.T) {
	p := NewBindGroupProvider("bloom", WithBorrowedTextureView(0, nil)).(*bindGroupProvider)
	assert.True(t, p.borrowed[0])
	_, ok := p.TextureViews()[0]
	assert.True(t, ok)

	p.Release()
	assert.Empty(t, p.TextureViews())
	assert.Empty(t, p.borrowed)
}

func TestSetTextureViewClearsBorrowedFlag(t *testing.T) {
	p := NewBindGroupProvider("composite").(*bindGroupProvider)
	p.SetBorrowedTextureView(1, nil)
	assert.True(t, p.borrowed[1])

	p.SetTextureView(1, nil)
	assert.False(t, p.borrowed[1])

	p.SetBorrowedTextureView(1, nil)
	p.SetTextureViews(nil)
	assert.Empty(t, p.borrowed)
}

func TestReleaseBindGroupWithoutGroupIsNoop(t *testing.T) {
	p := NewBindGroupProvider("environment")
	assert.NotPanics(t, p.ReleaseBindGroup)
	assert.NotPanics(t, p.Release)
}
