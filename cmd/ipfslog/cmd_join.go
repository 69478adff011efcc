package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/ipfs/go-cid"

	"github.com/daviddao/ipfslog/pkg/ipfslog"
)

func (a *app) cmdJoin(args []string) int {
	flags := flag.NewFlagSet("join", flag.ContinueOnError)
	logID := flags.String("log", "", "log id")
	identityName := flags.String("identity", "", "signer identity")
	fromHash := flags.String("from", "", "snapshot hash (CID) of the replica to merge in")
	maxSize := flags.Int("max-size", -1, "bound the merged log to this many entries (-1 = unbounded)")
	jsonOut := flags.Bool("json", false, "JSON output")
	if err := flags.Parse(args); err != nil {
		return 1
	}
	if *fromHash == "" {
		fmt.Fprintln(os.Stderr, "ipfslog: join: --from is required")
		return 1
	}
	hash, err := cid.Decode(*fromHash)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ipfslog: join: invalid --from hash: %v\n", err)
		return 1
	}

	id, err := a.resolveLogID(*logID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ipfslog: join: %v\n", err)
		return 1
	}
	signer, err := a.resolveIdentity(*identityName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ipfslog: join: %v\n", err)
		return 1
	}

	ctx := context.Background()
	l, err := a.openLog(ctx, id, signer)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ipfslog: join: %v\n", err)
		return 1
	}

	provider, err := a.trustedProvider()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ipfslog: join: %v\n", err)
		return 1
	}
	other, err := ipfslog.FromMultihash(ctx, a.store, signer, provider, hash, -1, &ipfslog.Options{ID: id})
	if err != nil {
		fmt.Fprintf(os.Stderr, "ipfslog: join: fetch remote: %v\n", err)
		return 1
	}

	if err := l.Join(ctx, other, *maxSize); err != nil {
		fmt.Fprintf(os.Stderr, "ipfslog: join: %v\n", err)
		return 1
	}
	if err := a.persistHead(ctx, l); err != nil {
		fmt.Fprintf(os.Stderr, "ipfslog: join: %v\n", err)
		return 1
	}

	if *jsonOut {
		printJSON(l.ToJSON())
	} else {
		fmt.Printf("joined: length=%d heads=%d\n", l.Len(), len(l.Heads()))
	}
	return 0
}
