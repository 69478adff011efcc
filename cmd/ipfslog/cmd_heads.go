package main

import (
	"context"
	"flag"
	"fmt"
	"os"
)

func (a *app) cmdHeads(args []string) int {
	flags := flag.NewFlagSet("heads", flag.ContinueOnError)
	logID := flags.String("log", "", "log id")
	identityName := flags.String("identity", "", "signer identity")
	jsonOut := flags.Bool("json", false, "JSON output")
	if err := flags.Parse(args); err != nil {
		return 1
	}

	id, err := a.resolveLogID(*logID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ipfslog: heads: %v\n", err)
		return 1
	}
	signer, err := a.resolveIdentity(*identityName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ipfslog: heads: %v\n", err)
		return 1
	}

	ctx := context.Background()
	l, err := a.openLog(ctx, id, signer)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ipfslog: heads: %v\n", err)
		return 1
	}

	heads := l.Heads()

	if *jsonOut {
		hashes := make([]string, len(heads))
		for i, h := range heads {
			hashes[i] = h.Hash.String()
		}
		printJSON(map[string]interface{}{"heads": hashes, "count": len(hashes)})
		return 0
	}
	if len(heads) == 0 {
		fmt.Println("no heads (empty log)")
		return 0
	}
	for _, h := range heads {
		fmt.Printf("%s  clock=%d  signer=%s\n", h.Hash, h.Clock.Time(), h.Identity.ID)
	}
	return 0
}
