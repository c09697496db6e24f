// Package fs is the resource loading and state persistence layer of an
// emulator front end. It loads program images over a fixed set of
// asynchronous channels and saves/restores emulator snapshots through an
// interchangeable persistence backend.
//
// An FS is meant for single-goroutine cooperative use: the owner calls
// Dowork once per frame, and all completion callbacks fire inside that call.
package fs

import (
	"fmt"

	"github.com/bdimitrov/chipsfs/fetch"
	"github.com/bdimitrov/chipsfs/log"
	"github.com/bdimitrov/chipsfs/snapshot"
	"github.com/bdimitrov/chipsfs/store"
)

// Kind selects how a load request is served.
type Kind int

const (
	// KindFile fetches the named file through the async I/O provider.
	KindFile Kind = iota
	// KindBase64 decodes an inlined payload synchronously.
	KindBase64
	// KindDropped loads a file dropped onto the window. The event loop
	// hands the drop through as a path, so it degrades to a file fetch.
	KindDropped
)

// Request describes one load. Name is the path for file loads and the
// display name for base64 loads; Payload is the encoded text for
// KindBase64.
type Request struct {
	Kind    Kind
	Name    string
	Payload string
}

type Config struct {
	Snapshot snapshot.Config `toml:"snapshot"`
}

// FS owns the channel table, the fetcher and the snapshot backend. Channel
// buffers are allocated once and only ever reset.
type FS struct {
	channels [store.NumChannels]channelState
	fetcher  fetch.Fetcher
	backend  snapshot.Backend
}

func New(cfg Config) (*FS, error) {
	f := &FS{fetcher: fetch.NewLocal()}
	for i := range f.channels {
		f.channels[i].buf = make([]byte, store.MaxSize+1)
	}
	backend, err := snapshot.New(cfg.Snapshot, f.fetcher)
	if err != nil {
		_ = f.fetcher.Close()
		return nil, err
	}
	f.backend = backend
	return f, nil
}

func (f *FS) Close() error {
	ferr := f.fetcher.Close()
	berr := f.backend.Close()
	if ferr != nil {
		return ferr
	}
	return berr
}

// Dowork delivers queued completions. Call it once per tick.
func (f *FS) Dowork() {
	f.fetcher.Dowork()
	f.backend.Dowork()
}

func (f *FS) channel(chn Channel) *channelState {
	if chn < 0 || int(chn) >= len(f.channels) {
		panic(fmt.Sprintf("fs: channel %d out of range", chn))
	}
	return &f.channels[chn]
}

// Reset returns the channel to Idle and clears its path and data view. It is
// idempotent and callable in any state.
func (f *FS) Reset(chn Channel) {
	f.channel(chn).reset()
}

// Load issues a request on the channel. The channel must not have a request
// pending; issuing one anyway is a programming error and panics. Base64
// requests complete before Load returns; file requests complete during a
// later Dowork. The return value reports synchronous failure and is always
// true for asynchronous kinds.
func (f *FS) Load(chn Channel, req Request) bool {
	c := f.channel(chn)
	if c.result == store.Pending {
		panic(fmt.Sprintf("fs: load on channel %d with a request still pending", chn))
	}
	c.reset()
	switch req.Kind {
	case KindBase64:
		return f.loadBase64(chn, c, req.Name, req.Payload)
	case KindFile, KindDropped:
		f.startFetch(chn, c, req.Name)
		return true
	default:
		panic(fmt.Sprintf("fs: unknown request kind %d", req.Kind))
	}
}

// StartLoadFile begins fetching the file at path on the channel.
func (f *FS) StartLoadFile(chn Channel, path string) {
	f.Load(chn, Request{Kind: KindFile, Name: path})
}

// StartLoadDroppedFile begins loading a file dropped onto the window.
func (f *FS) StartLoadDroppedFile(chn Channel, path string) {
	f.Load(chn, Request{Kind: KindDropped, Name: path})
}

// LoadBase64 decodes an inlined payload into the channel. It reports whether
// decoding succeeded.
func (f *FS) LoadBase64(chn Channel, name, payload string) bool {
	return f.Load(chn, Request{Kind: KindBase64, Name: name, Payload: payload})
}

func (f *FS) loadBase64(chn Channel, c *channelState, name, payload string) bool {
	c.path = store.MakePath("%s", name)
	buf := c.buffer()
	n, err := base64Decode(buf[:store.MaxSize], payload)
	if err != nil {
		log.Debugf("base64 load %q on channel %d: %s", name, chn, err)
		c.result = store.Failed
		return false
	}
	c.data = buf[:n]
	c.result = store.Success
	return true
}

func (f *FS) startFetch(chn Channel, c *channelState, path string) {
	c.path = store.MakePath("%s", path)
	c.result = store.Pending
	c.generation++
	buf := c.buffer()
	f.fetcher.Send(fetch.Request{
		Path:     path,
		Channel:  int(chn),
		Buffer:   buf[:store.MaxSize],
		UserData: c.generation<<8 | uint64(chn),
		Callback: f.fetchDone,
	})
}

// fetchDone routes a provider completion back to its channel. Completions
// of requests abandoned by a reset carry an outdated generation and are
// dropped, so they can't revive a channel that is no longer pending.
func (f *FS) fetchDone(resp fetch.Response) {
	chn := Channel(resp.UserData & 0xff)
	c := f.channel(chn)
	if c.result != store.Pending || resp.UserData>>8 != c.generation {
		log.Debugf("dropping stale completion on channel %d", chn)
		return
	}
	if resp.Fetched {
		c.data = resp.Data
		c.buf[len(resp.Data)] = 0 // keep text payloads usable as C strings
		c.result = store.Success
	} else {
		log.Debugf("load %q failed: %s", c.path, resp.Err)
		c.result = store.Failed
	}
}

func (f *FS) Result(chn Channel) store.Result {
	return f.channel(chn).result
}

func (f *FS) Success(chn Channel) bool {
	return f.Result(chn) == store.Success
}

func (f *FS) Failed(chn Channel) bool {
	return f.Result(chn) == store.Failed
}

func (f *FS) Pending(chn Channel) bool {
	return f.Result(chn) == store.Pending
}

// Data returns the loaded bytes, or nil unless the channel holds a
// successful result. The view stays valid until the next Load or Reset on
// the channel.
func (f *FS) Data(chn Channel) []byte {
	c := f.channel(chn)
	if c.result != store.Success {
		return nil
	}
	return c.data
}

// Filename returns the formatted path of the channel's last request.
func (f *FS) Filename(chn Channel) string {
	return f.channel(chn).path.String()
}

// Extension returns the lowercase extension token of the channel's path.
// Callers use it to tell keystroke-injection payloads (txt, bas) from binary
// images.
func (f *FS) Extension(chn Channel) string {
	return f.channel(chn).path.Extension()
}

// Ext reports whether the channel's path carries the extension.
func (f *FS) Ext(chn Channel, ext string) bool {
	return f.Extension(chn) == ext
}

// SaveSnapshot persists a point-in-time snapshot through the configured
// backend.
func (f *FS) SaveSnapshot(system string, slot int, data []byte) bool {
	if slot < 0 {
		panic(fmt.Sprintf("fs: snapshot slot %d out of range", slot))
	}
	return f.backend.Save(system, slot, data)
}

// LoadSnapshotAsync submits a snapshot read. On acceptance cb fires exactly
// once during a later Dowork with the slot's bytes or a failure.
func (f *FS) LoadSnapshotAsync(system string, slot int, cb snapshot.Callback) bool {
	if cb == nil {
		panic("fs: nil snapshot callback")
	}
	if slot < 0 {
		panic(fmt.Sprintf("fs: snapshot slot %d out of range", slot))
	}
	return f.backend.LoadAsync(system, slot, cb)
}
