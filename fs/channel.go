package fs

import "github.com/bdimitrov/chipsfs/store"

// Channel identifies one of the fixed load channels.
type Channel int

const (
	ChannelImage     Channel = store.ChannelImage
	ChannelSnapshots Channel = store.ChannelSnapshots
)

// channelState is one entry of the channel table. buf holds MaxSize+1 bytes;
// the extra byte takes a terminating zero after a successful fetch. data is
// a window into buf and is only non-nil while result is Success.
// generation counts fetch requests on the channel so that completions of
// abandoned requests can be told apart from the live one.
type channelState struct {
	path       store.Path
	result     store.Result
	data       []byte
	buf        []byte
	generation uint64
}

func (c *channelState) reset() {
	if c.result == store.Pending {
		// the abandoned fetch may still write into the old buffer, so
		// give it up and start the next request on a fresh one
		c.buf = nil
	}
	c.path = store.Path{}
	c.result = store.Idle
	c.data = nil
}

func (c *channelState) buffer() []byte {
	if c.buf == nil {
		c.buf = make([]byte, store.MaxSize+1)
	}
	return c.buf
}
