package snapshot

import (
	"os"

	"github.com/bdimitrov/chipsfs/fetch"
)

// Scratch persists snapshots under the system temp directory. It is the
// fallback when no durable per-application storage location is configured;
// snapshots survive only as long as the host keeps its temp files.
type Scratch struct {
	*Local
}

func NewScratch(f fetch.Fetcher) *Scratch {
	return &Scratch{Local: NewLocal(os.TempDir(), f)}
}
