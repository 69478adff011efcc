package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
)

func (a *app) cmdAppend(args []string) int {
	flags := flag.NewFlagSet("append", flag.ContinueOnError)
	logID := flags.String("log", "", "log id")
	identityName := flags.String("identity", "", "signer identity")
	jsonOut := flags.Bool("json", false, "JSON output")
	if err := flags.Parse(args); err != nil {
		return 1
	}
	payload := strings.Join(flags.Args(), " ")
	if payload == "" {
		fmt.Fprintln(os.Stderr, "ipfslog: append: missing payload")
		return 1
	}

	id, err := a.resolveLogID(*logID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ipfslog: append: %v\n", err)
		return 1
	}
	signer, err := a.resolveIdentity(*identityName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ipfslog: append: %v\n", err)
		return 1
	}

	ctx := context.Background()
	l, err := a.openLog(ctx, id, signer)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ipfslog: append: %v\n", err)
		return 1
	}

	e, err := l.Append(ctx, []byte(payload), nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ipfslog: append: %v\n", err)
		return 1
	}
	if err := a.persistHead(ctx, l); err != nil {
		fmt.Fprintf(os.Stderr, "ipfslog: append: %v\n", err)
		return 1
	}

	if *jsonOut {
		printJSON(map[string]interface{}{"hash": e.Hash.String(), "clock": e.Clock.Time()})
	} else {
		fmt.Printf("%s\n", e.Hash.String())
	}
	return 0
}
