package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/ipfs/go-cid"
)

func (a *app) cmdShow(args []string) int {
	flags := flag.NewFlagSet("show", flag.ContinueOnError)
	logID := flags.String("log", "", "log id")
	identityName := flags.String("identity", "", "signer identity")
	hashFlag := flags.String("hash", "", "entry hash (CID)")
	jsonOut := flags.Bool("json", false, "JSON output")
	if err := flags.Parse(args); err != nil {
		return 1
	}
	if *hashFlag == "" {
		fmt.Fprintln(os.Stderr, "ipfslog: show: --hash is required")
		return 1
	}
	hash, err := cid.Decode(*hashFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ipfslog: show: invalid hash: %v\n", err)
		return 1
	}

	id, err := a.resolveLogID(*logID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ipfslog: show: %v\n", err)
		return 1
	}
	signer, err := a.resolveIdentity(*identityName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ipfslog: show: %v\n", err)
		return 1
	}

	ctx := context.Background()
	l, err := a.openLog(ctx, id, signer)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ipfslog: show: %v\n", err)
		return 1
	}

	e, ok := l.Get(hash)
	if !ok {
		fmt.Fprintf(os.Stderr, "ipfslog: show: entry %s not found in log %s\n", hash, id)
		return 1
	}

	if *jsonOut {
		next := make([]string, len(e.Next))
		for i, n := range e.Next {
			next[i] = n.String()
		}
		printJSON(map[string]interface{}{
			"hash":    e.Hash.String(),
			"payload": string(e.Payload),
			"next":    next,
			"clock":   e.Clock.Time(),
			"signer":  e.Identity.ID,
			"valid":   e.Verify(),
		})
		return 0
	}
	fmt.Printf("hash:    %s\n", e.Hash)
	fmt.Printf("payload: %s\n", e.Payload)
	fmt.Printf("clock:   %d (%s)\n", e.Clock.Time(), e.Clock.ID())
	fmt.Printf("signer:  %s\n", e.Identity.ID)
	fmt.Printf("valid:   %t\n", e.Verify())
	for _, n := range e.Next {
		fmt.Printf("next:    %s\n", n)
	}
	return 0
}
