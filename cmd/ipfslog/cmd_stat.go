package main

import (
	"flag"
	"fmt"

	"github.com/dustin/go-humanize"
)

func (a *app) cmdStat(args []string) int {
	flags := flag.NewFlagSet("stat", flag.ContinueOnError)
	jsonOut := flags.Bool("json", false, "JSON output")
	if err := flags.Parse(args); err != nil {
		return 1
	}

	count := a.store.Count()
	size := a.store.TotalBytes()

	if *jsonOut {
		printJSON(map[string]interface{}{
			"objects":    count,
			"bytes":      size,
			"human_size": humanize.Bytes(uint64(size)),
			"path":       a.cfg.BlockstorePath(),
		})
		return 0
	}
	fmt.Printf("blockstore: %s\n", a.cfg.BlockstorePath())
	fmt.Printf("objects:    %d\n", count)
	fmt.Printf("size:       %s (%d bytes)\n", humanize.Bytes(uint64(size)), size)
	return 0
}
