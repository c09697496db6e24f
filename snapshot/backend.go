package snapshot

import (
	"fmt"

	"github.com/bdimitrov/chipsfs/fetch"
	"github.com/bdimitrov/chipsfs/store"
)

// Callback receives the outcome of a LoadAsync exactly once, during a later
// Dowork, never inside LoadAsync itself.
type Callback func(Response)

// Response carries a loaded snapshot back to the caller. Data is empty
// unless Result is store.Success.
type Response struct {
	Slot   int
	Result store.Result
	Data   []byte
}

// Backend is the snapshot persistence contract. Implementations differ in
// where the bytes live; callers observe identical save/load semantics.
type Backend interface {
	// Save persists data for (system, slot) and reports acceptance. The
	// host-store strategy only reports that the put was submitted.
	Save(system string, slot int, data []byte) bool

	// LoadAsync submits a read for (system, slot) and reports acceptance.
	// On acceptance cb fires exactly once during a later Dowork.
	LoadAsync(system string, slot int, cb Callback) bool

	// Dowork delivers queued completions.
	Dowork()

	Close() error
}

type Config struct {
	// Strategy selects the backend once at configuration time:
	// "local", "scratch" (default) or "host".
	Strategy string `toml:"strategy"`

	// Dir is the snapshot directory for the "local" strategy.
	Dir string `toml:"dir"`

	// StoreFile is the key/value store file for the "host" strategy.
	StoreFile string `toml:"store_file"`
}

// New builds the backend cfg selects. The fetcher is shared with the loader;
// the file-backed strategies read through it.
func New(cfg Config, f fetch.Fetcher) (Backend, error) {
	switch cfg.Strategy {
	case "", "scratch":
		return NewScratch(f), nil
	case "local":
		if cfg.Dir == "" {
			return nil, fmt.Errorf("snapshot: the local strategy needs a directory")
		}
		return NewLocal(cfg.Dir, f), nil
	case "host":
		if cfg.StoreFile == "" {
			return nil, fmt.Errorf("snapshot: the host strategy needs a store file")
		}
		return NewHostStore(cfg.StoreFile)
	default:
		return nil, fmt.Errorf("snapshot: unknown strategy %q", cfg.Strategy)
	}
}

// makePath formats the deterministic snapshot path used by the file-backed
// strategies.
func makePath(dir, system string, slot int) store.Path {
	return store.MakePath("%s/chips_%s_snapshot_%d", dir, system, slot)
}

// makeKey formats the host-store key.
func makeKey(system string, slot int) string {
	return fmt.Sprintf("%s_%d", system, slot)
}
