package metadata

/** @brief The pixel layout of a texture. */
type TextureFormat int

const (
	/** @brief Single 8-bit channel, sampled as luminance. Used for wipe masks. */
	TextureFormatLuminance8 TextureFormat = iota
	/** @brief Four 8-bit channels. */
	TextureFormatRGBA8
)

func (f TextureFormat) BytesPerPixel() uint32 {
	switch f {
	case TextureFormatLuminance8:
		return 1
	default:
		return 4
	}
}

func (f TextureFormat) String() string {
	switch f {
	case TextureFormatLuminance8:
		return "luminance8"
	case TextureFormatRGBA8:
		return "rgba8"
	default:
		return "unknown"
	}
}

/** @brief Represents supported texture filtering modes. */
type TextureFilter int

const (
	/** @brief Nearest-neighbor filtering. */
	TextureFilterModeNearest TextureFilter = 0x0
	/** @brief Linear (i.e. bilinear) filtering.*/
	TextureFilterModeLinear TextureFilter = 0x1
)

type TextureRepeat int

const (
	TextureRepeatRepeat         TextureRepeat = 0x1
	TextureRepeatMirroredRepeat TextureRepeat = 0x2
	TextureRepeatClampToEdge    TextureRepeat = 0x3
	TextureRepeatClampToBorder  TextureRepeat = 0x4
)

/** @brief Everything the backend needs to allocate a texture. */
type TextureDesc struct {
	Name   string
	Format TextureFormat
	Width  uint32
	Height uint32
	/** @brief The repeat mode on the U axis (or X, or S) */
	RepeatU TextureRepeat
	/** @brief The repeat mode on the V axis (or Y, or T) */
	RepeatV TextureRepeat
	Filter  TextureFilter
}

/**
 * @brief Represents a texture.
 */
type Texture struct {
	/** @brief The unique texture identifier. */
	ID uint32
	/** @brief The texture Name. */
	Name string
	/** @brief The texture Format. */
	Format TextureFormat
	/** @brief The texture Width. */
	Width uint32
	/** @brief The texture Height. */
	Height  uint32
	RepeatU TextureRepeat
	RepeatV TextureRepeat
	Filter  TextureFilter
	/** @brief The texture Generation. Incremented every time the data is reloaded. */
	Generation uint32
	/** @brief Renderer API specific data. */
	InternalData interface{}
}

// Size returns the number of bytes a full upload of the texture takes.
func (t *Texture) Size() uint64 {
	return uint64(t.Width) * uint64(t.Height) * uint64(t.Format.BytesPerPixel())
}
