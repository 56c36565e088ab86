package metadata

import (
	"github.com/spaghettifunk/screenwipe/engine/math"
)

type RendererBackendConfig struct {
	/** @brief The name of the application */
	ApplicationName string
	/** @brief The size of the default backbuffer. */
	Width  uint32
	Height uint32
}

/** @brief Represents a render target, which is used for rendering to a texture. */
type RenderTarget struct {
	ID   uint32
	Name string
	/** @brief The colour attachment. */
	Colour *Texture
	Width  uint32
	Height uint32
	/** @brief True for the backend-owned default backbuffer. */
	IsDefault    bool
	InternalData interface{}
}

/**
 * @brief The types of clearing to be done on a renderpass.
 * Can be combined together for multiple clearing functions.
 */
type RenderpassClearFlag uint32

const (
	/** @brief No clearing should be done. */
	RENDERPASS_CLEAR_NONE_FLAG RenderpassClearFlag = 0x0
	/** @brief Clear the colour buffer. */
	RENDERPASS_CLEAR_COLOUR_BUFFER_FLAG RenderpassClearFlag = 0x1
)

/** @brief Parameters of a render pass begin on a graphics context. */
type RenderPassBeginInfo struct {
	/** @brief The render target. Nil means the default backbuffer. */
	Target      *RenderTarget
	ClearFlags  RenderpassClearFlag
	ClearColour math.Vec4
}

type RenderBufferType int

const (
	/** @brief Buffer is use is unknown. Default, but usually invalid. */
	RENDERBUFFER_TYPE_UNKNOWN RenderBufferType = iota
	/** @brief Buffer is used for vertex data. */
	RENDERBUFFER_TYPE_VERTEX
	/** @brief Buffer is used for index data. */
	RENDERBUFFER_TYPE_INDEX
)

type BufferDesc struct {
	Name             string
	RenderBufferType RenderBufferType
	/** @brief The total size of the buffer in bytes. */
	TotalSize uint64
}

type RenderBuffer struct {
	ID uint32
	/** @brief The type of buffer, which typically determines its use. */
	RenderBufferType RenderBufferType
	/** @brief The total size of the buffer in bytes. */
	TotalSize uint64
	/** @brief Contains internal data for the renderer-API-specific buffer. */
	InternalData interface{}
}

/** @brief An open upload scope. Data written through it is visible to draws of the same frame. */
type TransferContext struct {
	FrameNumber  uint64
	InternalData interface{}
}

/** @brief An open command recording scope. */
type GraphicsContext struct {
	FrameNumber  uint64
	InternalData interface{}
}
