package main

import (
	"context"
	"flag"
	"fmt"
	"os"
)

func (a *app) cmdLog(args []string) int {
	flags := flag.NewFlagSet("log", flag.ContinueOnError)
	logID := flags.String("log", "", "log id")
	identityName := flags.String("identity", "", "signer identity")
	limit := flags.Int("limit", 0, "max entries to show (0 = all)")
	jsonOut := flags.Bool("json", false, "JSON output")
	if err := flags.Parse(args); err != nil {
		return 1
	}

	id, err := a.resolveLogID(*logID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ipfslog: log: %v\n", err)
		return 1
	}
	signer, err := a.resolveIdentity(*identityName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ipfslog: log: %v\n", err)
		return 1
	}

	ctx := context.Background()
	l, err := a.openLog(ctx, id, signer)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ipfslog: log: %v\n", err)
		return 1
	}

	values := l.Values()
	if *limit > 0 && *limit < len(values) {
		values = values[len(values)-*limit:]
	}

	if *jsonOut {
		type row struct {
			Hash    string `json:"hash"`
			Payload string `json:"payload"`
			Clock   int64  `json:"clock"`
			Signer  string `json:"signer"`
		}
		rows := make([]row, len(values))
		for i, e := range values {
			rows[i] = row{Hash: e.Hash.String(), Payload: string(e.Payload), Clock: e.Clock.Time(), Signer: e.Identity.ID}
		}
		printJSON(map[string]interface{}{"entries": rows, "count": len(rows)})
		return 0
	}
	if len(values) == 0 {
		fmt.Println("empty log")
		return 0
	}
	for _, e := range values {
		fmt.Printf("[clock=%d] %s: %s\n", e.Clock.Time(), e.Identity.ID, e.Payload)
	}
	return 0
}
