package snapshot

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/bdimitrov/chipsfs/log"
	"github.com/bdimitrov/chipsfs/store"
)

const hostSchema = `CREATE TABLE IF NOT EXISTS snapshots (
	key  TEXT PRIMARY KEY,
	sum  INTEGER NOT NULL,
	data BLOB NOT NULL
)`

// maxOps bounds operations waiting for the store goroutine and completions
// waiting for the next Dowork.
const maxOps = 128

// HostStore keeps snapshots in a host-managed sqlite key/value store. The
// store runs its operations on its own goroutine, in submission order;
// results come back through a completion queue and fire during Dowork. Puts
// are fire and forget: failures are logged, not surfaced.
type HostStore struct {
	db        *sql.DB
	ops       chan func()
	completed chan hostCompletion
	caps      *capsules
	closed    chan struct{}
	closeOnce sync.Once
}

type hostCompletion struct {
	capsule uint64
	data    []byte
	err     error
}

func NewHostStore(file string) (*HostStore, error) {
	db, err := sql.Open("sqlite", file)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", store.ErrStoreUnavailable, err)
	}
	if _, err := db.Exec(hostSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %s", store.ErrStoreUnavailable, err)
	}
	h := &HostStore{
		db:        db,
		ops:       make(chan func(), maxOps),
		completed: make(chan hostCompletion, maxOps),
		caps:      newCapsules(),
		closed:    make(chan struct{}),
	}
	go h.run()
	return h, nil
}

func (h *HostStore) run() {
	for {
		select {
		case op := <-h.ops:
			op()
		case <-h.closed:
			return
		}
	}
}

func (h *HostStore) Save(system string, slot int, data []byte) bool {
	key := makeKey(system, slot)
	blob := append([]byte(nil), data...)
	sum := int64(store.Checksum(blob))
	put := func() {
		_, err := h.db.Exec(
			`INSERT INTO snapshots (key, sum, data) VALUES (?, ?, ?)
			 ON CONFLICT(key) DO UPDATE SET sum = excluded.sum, data = excluded.data`,
			key, sum, blob)
		if err != nil {
			log.Errorf("host store: put %q: %s", key, err)
		}
	}
	select {
	case h.ops <- put:
		return true
	default:
		log.Errorf("host store: put %q: operation queue full", key)
		return false
	}
}

func (h *HostStore) LoadAsync(system string, slot int, cb Callback) bool {
	if cb == nil {
		panic("snapshot: nil callback")
	}
	key := makeKey(system, slot)
	id := h.caps.put(slot, cb)
	get := func() {
		var sum int64
		var blob []byte
		err := h.db.QueryRow(`SELECT sum, data FROM snapshots WHERE key = ?`, key).Scan(&sum, &blob)
		if errors.Is(err, sql.ErrNoRows) {
			err = fmt.Errorf("no snapshot stored under %q", key)
		}
		if err == nil && int64(store.Checksum(blob)) != sum {
			err = fmt.Errorf("checksum mismatch for %q", key)
			blob = nil
		}
		select {
		case h.completed <- hostCompletion{capsule: id, data: blob, err: err}:
		case <-h.closed:
		}
	}
	select {
	case h.ops <- get:
		return true
	default:
		// not accepted, so no completion will ever take this capsule
		h.caps.take(id)
		log.Errorf("host store: get %q: operation queue full", key)
		return false
	}
}

func (h *HostStore) Dowork() {
	for {
		select {
		case c := <-h.completed:
			cp := h.caps.take(c.capsule)
			if cp == nil {
				continue
			}
			if c.err != nil {
				log.Debugf("host store: %s", c.err)
				cp.callback(Response{Slot: cp.slot, Result: store.Failed})
			} else {
				cp.callback(Response{Slot: cp.slot, Result: store.Success, Data: c.data})
			}
		default:
			return
		}
	}
}

// PendingLoads reports capsules still waiting for a completion. A get the
// host never answers stays counted here forever.
func (h *HostStore) PendingLoads() int {
	return h.caps.len()
}

// Close can be called more than once; any call after the first is a noop.
func (h *HostStore) Close() error {
	h.closeOnce.Do(func() { close(h.closed) })
	return h.db.Close()
}
