package snapshot

import (
	"os"

	"github.com/bdimitrov/chipsfs/fetch"
	"github.com/bdimitrov/chipsfs/log"
	"github.com/bdimitrov/chipsfs/store"
)

// Local persists snapshots as files under a configured directory. Saves are
// synchronous; loads go through the shared fetcher on the channel reserved
// for snapshots.
type Local struct {
	dir     string
	fetcher fetch.Fetcher
}

func NewLocal(dir string, f fetch.Fetcher) *Local {
	return &Local{dir: dir, fetcher: f}
}

func (l *Local) Save(system string, slot int, data []byte) bool {
	path := makePath(l.dir, system, slot)
	if path.Clamped {
		log.Errorf("snapshot save %s/%d: %s", system, slot, store.ErrPathClamped)
		return false
	}
	if err := write(path.String(), data); err != nil {
		log.Errorf("snapshot save %s: %s", path, err)
		return false
	}
	return true
}

func write(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	if _, err = f.Write(data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func (l *Local) LoadAsync(system string, slot int, cb Callback) bool {
	if cb == nil {
		panic("snapshot: nil callback")
	}
	path := makePath(l.dir, system, slot)
	if path.Clamped {
		return false
	}
	// Each request gets its own buffer so loads of different slots can be
	// in flight at the same time.
	buf := make([]byte, store.MaxSize)
	return l.fetcher.Send(fetch.Request{
		Path:     path.String(),
		Channel:  store.ChannelSnapshots,
		Buffer:   buf,
		UserData: uint64(slot),
		Callback: func(resp fetch.Response) {
			if resp.Fetched {
				cb(Response{Slot: slot, Result: store.Success, Data: resp.Data})
			} else {
				cb(Response{Slot: slot, Result: store.Failed})
			}
		},
	})
}

// Dowork is a no-op: completions arrive through the shared fetcher, which
// the owner pumps.
func (l *Local) Dowork() {}

func (l *Local) Close() error {
	return nil
}
