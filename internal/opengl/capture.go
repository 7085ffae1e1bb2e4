package opengl

import (
	"fmt"

	gl "github.com/go-gl/gl/v4.1-core/gl"
)

// CaptureTarget is an offscreen color+depth framebuffer the refraction
// pass renders the scene into before the refracting mesh samples it.
type CaptureTarget struct {
	FBO      uint32
	ColorTex uint32
	Depth    uint32
	Size     int32
}

func NewCaptureTarget(size int) (*CaptureTarget, error) {
	if size <= 0 {
		return nil, fmt.Errorf("capture size %d", size)
	}
	c := &CaptureTarget{Size: int32(size)}

	gl.GenTextures(1, &c.ColorTex)
	gl.BindTexture(gl.TEXTURE_2D, c.ColorTex)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, c.Size, c.Size, 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)

	gl.GenRenderbuffers(1, &c.Depth)
	gl.BindRenderbuffer(gl.RENDERBUFFER, c.Depth)
	gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH_COMPONENT24, c.Size, c.Size)

	gl.GenFramebuffers(1, &c.FBO)
	gl.BindFramebuffer(gl.FRAMEBUFFER, c.FBO)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, c.ColorTex, 0)
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT, gl.RENDERBUFFER, c.Depth)

	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.BindRenderbuffer(gl.RENDERBUFFER, 0)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	if status != gl.FRAMEBUFFER_COMPLETE {
		c.Destroy()
		return nil, fmt.Errorf("capture FBO incomplete: status=0x%X", status)
	}
	return c, nil
}

func (c *CaptureTarget) Destroy() {
	if c.FBO != 0 {
		gl.DeleteFramebuffers(1, &c.FBO)
		c.FBO = 0
	}
	if c.Depth != 0 {
		gl.DeleteRenderbuffers(1, &c.Depth)
		c.Depth = 0
	}
	if c.ColorTex != 0 {
		gl.DeleteTextures(1, &c.ColorTex)
		c.ColorTex = 0
	}
}
