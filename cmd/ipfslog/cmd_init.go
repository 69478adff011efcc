package main

import (
	"context"
	"flag"
	"fmt"
	"os"
)

func (a *app) cmdInit(args []string) int {
	flags := flag.NewFlagSet("init", flag.ContinueOnError)
	logID := flags.String("log", "", "log id (default: IPFSLOG_LOG, else timestamp-derived)")
	identityName := flags.String("identity", "", "signer identity")
	jsonOut := flags.Bool("json", false, "JSON output")
	if err := flags.Parse(args); err != nil {
		return 1
	}

	signer, err := a.resolveIdentity(*identityName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ipfslog: init: %v\n", err)
		return 1
	}

	id := *logID
	if id == "" {
		id = a.cfg.DefaultLogID
	}

	ctx := context.Background()
	provider, err := a.trustedProvider()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ipfslog: init: %v\n", err)
		return 1
	}

	l, err := newLogWithID(a.store, signer, provider, id)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ipfslog: init: %v\n", err)
		return 1
	}
	if err := a.persistHead(ctx, l); err != nil {
		fmt.Fprintf(os.Stderr, "ipfslog: init: %v\n", err)
		return 1
	}

	if *jsonOut {
		printJSON(l.ToJSON())
	} else {
		fmt.Printf("initialized log %s\n", l.ID())
	}
	return 0
}
