package fs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/bdimitrov/chipsfs/snapshot"
	"github.com/bdimitrov/chipsfs/store"
)

// pumpUntil drives Dowork until cond holds or the deadline passes.
func pumpUntil(t *testing.T, fsys *FS, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for !cond() {
		require.True(t, time.Now().Before(deadline), "timed out waiting for completion")
		fsys.Dowork()
		time.Sleep(time.Millisecond)
	}
}

func newTestFS(t *testing.T) *FS {
	t.Helper()
	fsys, err := New(Config{})
	require.NoError(t, err)
	t.Cleanup(func() { fsys.Close() })
	return fsys
}

func writeTestFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestStartLoadFile(t *testing.T) {
	fsys := newTestFS(t)
	contents := []byte("\x00\x01\x02program image\xff")
	path := writeTestFile(t, "invaders.z80", contents)

	fsys.StartLoadFile(ChannelImage, path)
	require.True(t, fsys.Pending(ChannelImage))
	require.Nil(t, fsys.Data(ChannelImage))

	pumpUntil(t, fsys, func() bool { return !fsys.Pending(ChannelImage) })

	require.True(t, fsys.Success(ChannelImage))
	require.Equal(t, contents, fsys.Data(ChannelImage))
	require.Equal(t, path, fsys.Filename(ChannelImage))
	require.True(t, fsys.Ext(ChannelImage, "z80"))
}

func TestStartLoadDroppedFile(t *testing.T) {
	fsys := newTestFS(t)
	path := writeTestFile(t, "dropped.tap", []byte("tape"))

	fsys.StartLoadDroppedFile(ChannelImage, path)
	pumpUntil(t, fsys, func() bool { return !fsys.Pending(ChannelImage) })

	require.True(t, fsys.Success(ChannelImage))
	require.Equal(t, []byte("tape"), fsys.Data(ChannelImage))
}

func TestLoadMissingFile(t *testing.T) {
	fsys := newTestFS(t)

	fsys.StartLoadFile(ChannelImage, filepath.Join(t.TempDir(), "nope.bin"))
	pumpUntil(t, fsys, func() bool { return !fsys.Pending(ChannelImage) })

	require.True(t, fsys.Failed(ChannelImage))
	require.Nil(t, fsys.Data(ChannelImage))
}

func TestResetAlwaysIdle(t *testing.T) {
	fsys := newTestFS(t)

	fsys.Reset(ChannelImage)
	require.Equal(t, store.Idle, fsys.Result(ChannelImage))

	fsys.LoadBase64(ChannelImage, "hello.txt", "SGVsbG8=")
	fsys.Reset(ChannelImage)
	require.Equal(t, store.Idle, fsys.Result(ChannelImage))
	require.Nil(t, fsys.Data(ChannelImage))
	require.Equal(t, "", fsys.Filename(ChannelImage))

	// idempotent
	fsys.Reset(ChannelImage)
	require.Equal(t, store.Idle, fsys.Result(ChannelImage))
}

func TestLoadWhilePendingPanics(t *testing.T) {
	fsys := newTestFS(t)
	path := writeTestFile(t, "slow.bin", []byte("x"))

	// completions only fire inside Dowork, so the channel stays pending
	fsys.StartLoadFile(ChannelImage, path)
	require.Panics(t, func() { fsys.StartLoadFile(ChannelImage, path) })
	pumpUntil(t, fsys, func() bool { return !fsys.Pending(ChannelImage) })
}

func TestResetAbandonsInFlightLoad(t *testing.T) {
	fsys := newTestFS(t)
	path := writeTestFile(t, "abandoned.bin", []byte("abandoned bytes"))

	fsys.StartLoadFile(ChannelImage, path)
	fsys.Reset(ChannelImage)
	require.Equal(t, store.Idle, fsys.Result(ChannelImage))

	// let the abandoned fetch finish, then pump: its completion must not
	// revive the channel
	time.Sleep(100 * time.Millisecond)
	fsys.Dowork()
	require.Equal(t, store.Idle, fsys.Result(ChannelImage))
	require.Nil(t, fsys.Data(ChannelImage))
}

func TestResetThenReloadGetsFreshData(t *testing.T) {
	fsys := newTestFS(t)
	abandoned := writeTestFile(t, "abandoned.bin", []byte("abandoned bytes"))
	wanted := writeTestFile(t, "wanted.bin", []byte("wanted bytes"))

	fsys.StartLoadFile(ChannelImage, abandoned)
	fsys.Reset(ChannelImage)
	fsys.StartLoadFile(ChannelImage, wanted)
	pumpUntil(t, fsys, func() bool { return !fsys.Pending(ChannelImage) })

	require.True(t, fsys.Success(ChannelImage))
	require.Equal(t, []byte("wanted bytes"), fsys.Data(ChannelImage))
	require.Equal(t, wanted, fsys.Filename(ChannelImage))
}

func TestChannelOutOfRangePanics(t *testing.T) {
	fsys := newTestFS(t)
	require.Panics(t, func() { fsys.Result(Channel(store.NumChannels)) })
	require.Panics(t, func() { fsys.Reset(Channel(-1)) })
}

func TestChannelsIndependent(t *testing.T) {
	fsys := newTestFS(t)
	path := writeTestFile(t, "image.rom", []byte("rom bytes"))

	fsys.LoadBase64(ChannelSnapshots, "b.txt", "SGVsbG8=")
	fsys.StartLoadFile(ChannelImage, path)
	pumpUntil(t, fsys, func() bool { return !fsys.Pending(ChannelImage) })

	require.Equal(t, []byte("rom bytes"), fsys.Data(ChannelImage))
	require.Equal(t, []byte("Hello"), fsys.Data(ChannelSnapshots))
}

func TestSnapshotRoundTripThroughFS(t *testing.T) {
	fsys := newTestFS(t)
	system := "test_" + uuid.NewString()
	payload := []byte("machine state")

	require.True(t, fsys.SaveSnapshot(system, 2, payload))

	var got *snapshot.Response
	require.True(t, fsys.LoadSnapshotAsync(system, 2, func(resp snapshot.Response) {
		got = &resp
	}))
	require.Nil(t, got, "callback must not fire inside LoadSnapshotAsync")

	pumpUntil(t, fsys, func() bool { return got != nil })
	require.Equal(t, 2, got.Slot)
	require.Equal(t, store.Success, got.Result)
	require.Equal(t, payload, got.Data)
}

func TestSnapshotContractViolations(t *testing.T) {
	fsys := newTestFS(t)
	require.Panics(t, func() { fsys.LoadSnapshotAsync("sys", 0, nil) })
	require.Panics(t, func() { fsys.SaveSnapshot("sys", -1, nil) })
}
