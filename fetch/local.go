package fetch

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/google/uuid"

	"github.com/bdimitrov/chipsfs/log"
	"github.com/bdimitrov/chipsfs/store"
)

// maxQueued bounds completions waiting for the next Dowork.
const maxQueued = 128

// Local fetches files from the local filesystem. Each request is read on a
// background goroutine; its completion is queued and delivered on the
// caller's goroutine during Dowork.
type Local struct {
	completed chan completion
	closed    chan struct{}
	closeOnce sync.Once
}

type completion struct {
	callback func(Response)
	resp     Response
}

func NewLocal() *Local {
	return &Local{
		completed: make(chan completion, maxQueued),
		closed:    make(chan struct{}),
	}
}

func (l *Local) Send(req Request) bool {
	if req.Callback == nil {
		panic("fetch: request without a callback")
	}
	id := uuid.New()
	log.Debugf("fetch %s: %q on channel %d", id, req.Path, req.Channel)
	go l.fetch(id, req)
	return true
}

func (l *Local) fetch(id uuid.UUID, req Request) {
	resp := Response{Channel: req.Channel, UserData: req.UserData}
	n, err := readInto(req.Path, req.Buffer)
	if err != nil {
		log.Debugf("fetch %s: %s", id, err)
		resp.Err = err
	} else {
		log.Debugf("fetch %s: %d bytes", id, n)
		resp.Fetched = true
		resp.Data = req.Buffer[:n]
	}
	select {
	case l.completed <- completion{callback: req.Callback, resp: resp}:
	case <-l.closed:
	}
}

// readInto reads the whole file at path into buf. Files larger than the
// buffer fail without a partial read.
func readInto(path string, buf []byte) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", store.ErrBackingStoreIO, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return 0, fmt.Errorf("%w: %s", store.ErrBackingStoreIO, err)
	}
	if info.Size() > int64(len(buf)) {
		return 0, fmt.Errorf("%w: %q is %d bytes", store.ErrBufferOverflow, path, info.Size())
	}

	n, err := io.ReadFull(f, buf[:info.Size()])
	if err != nil {
		return 0, fmt.Errorf("%w: %s", store.ErrBackingStoreIO, err)
	}
	return n, nil
}

// Dowork fires the callbacks of all completions queued so far.
func (l *Local) Dowork() {
	for {
		select {
		case c := <-l.completed:
			c.callback(c.resp)
		default:
			return
		}
	}
}

// Close can be called more than once; any call after the first is a noop.
func (l *Local) Close() error {
	l.closeOnce.Do(func() { close(l.closed) })
	return nil
}
