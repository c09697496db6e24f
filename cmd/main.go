package main

import (
	"flag"
	"time"

	"github.com/bdimitrov/chipsfs/fs"
	"github.com/bdimitrov/chipsfs/log"
	"github.com/bdimitrov/chipsfs/snapshot"
	"github.com/bdimitrov/chipsfs/store"
)

// tick approximates one 60Hz frame of the emulator event loop.
const tick = 16 * time.Millisecond

func main() {
	defer log.Sync()

	cfgLocation := flag.String("config", "", "toml config file")
	flag.Parse()
	imagePath := flag.Arg(0)
	if imagePath == "" {
		log.Fatal("usage: chipsfs [-config config.toml] <image>")
	}

	cfg := parseConfig(*cfgLocation)

	fsys, err := fs.New(cfg)
	if err != nil {
		log.Fatal("init: ", err)
	}
	defer fsys.Close()

	fsys.StartLoadFile(fs.ChannelImage, imagePath)
	for fsys.Pending(fs.ChannelImage) {
		fsys.Dowork()
		time.Sleep(tick)
	}
	if fsys.Failed(fs.ChannelImage) {
		log.Fatalf("loading %s failed", imagePath)
	}

	data := fsys.Data(fs.ChannelImage)
	log.Infof("loaded %s: %d bytes, extension %q",
		fsys.Filename(fs.ChannelImage), len(data), fsys.Extension(fs.ChannelImage))
	fsys.Reset(fs.ChannelImage)

	if !fsys.SaveSnapshot("demo", 0, data) {
		log.Fatal("saving snapshot failed")
	}

	done := false
	fsys.LoadSnapshotAsync("demo", 0, func(resp snapshot.Response) {
		done = true
		if resp.Result != store.Success {
			log.Fatalf("restoring snapshot %d failed", resp.Slot)
		}
		log.Infof("restored snapshot %d: %d bytes", resp.Slot, len(resp.Data))
	})
	for !done {
		fsys.Dowork()
		time.Sleep(tick)
	}
}
