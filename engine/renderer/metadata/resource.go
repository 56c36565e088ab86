package metadata

type ResourceType int

/** @brief Pre-defined resource types. */
const (
	/** @brief Binary resource type. */
	ResourceTypeBinary ResourceType = iota
	/** @brief Image resource type. */
	ResourceTypeImage
	/** @brief A lump read out of a lump store. */
	ResourceTypeLump
)

/**
 * @brief A generic structure for a resource. All resource loaders
 * load data into these.
 */
type Resource struct {
	/** @brief The name of the resource. */
	Name string
	/** @brief The full file path of the resource. */
	FullPath string
	/** @brief The type of the resource. */
	ResourceType ResourceType
	/** @brief The size of the resource data in bytes. */
	DataSize uint64
	/** @brief The resource data. */
	Data interface{}
}

/** @brief Decoded image data, always tightly packed RGBA8. */
type ImageResourceData struct {
	/** @brief The number of channels. */
	ChannelCount uint8
	/** @brief The width of the image. */
	Width uint32
	/** @brief The height of the image. */
	Height uint32
	/** @brief The pixel data of the image. */
	Pixels []uint8
}
