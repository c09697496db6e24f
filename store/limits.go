package store

const (
	// NumChannels is the number of independent load channels.
	NumChannels = 2

	// MaxSize is the usable capacity of a channel buffer. Buffers reserve
	// one byte past it for a terminating zero so text payloads stay usable
	// as C strings.
	MaxSize = 2024 * 1024

	// PathSize is the fixed path buffer capacity, terminator included.
	PathSize = 256

	// ExtSize bounds extension tokens, terminator included.
	ExtSize = 16
)

// Fixed channel assignment: program images and snapshot fetches never share
// a provider channel.
const (
	ChannelImage     = 0
	ChannelSnapshots = 1
)
