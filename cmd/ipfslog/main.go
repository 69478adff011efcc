// Command ipfslog is a CLI over the append-only, replicated,
// content-addressed log: create logs, append signed entries, inspect
// heads and history, and merge divergent replicas.
package main

import (
	"fmt"
	"os"
)

const version = "1.0.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "--help", "-h", "help":
		printUsage()
		return
	case "--version", "-v", "version":
		fmt.Println("ipfslog", version)
		return
	}

	a, err := newApp()
	if err != nil {
		fatal("%v", err)
	}
	defer a.Close()

	switch os.Args[1] {
	case "identity-new":
		os.Exit(a.cmdIdentityNew(os.Args[2:]))
	case "identity-list":
		os.Exit(a.cmdIdentityList(os.Args[2:]))
	case "init":
		os.Exit(a.cmdInit(os.Args[2:]))
	case "append":
		os.Exit(a.cmdAppend(os.Args[2:]))
	case "heads":
		os.Exit(a.cmdHeads(os.Args[2:]))
	case "log":
		os.Exit(a.cmdLog(os.Args[2:]))
	case "show":
		os.Exit(a.cmdShow(os.Args[2:]))
	case "join":
		os.Exit(a.cmdJoin(os.Args[2:]))
	case "stat":
		os.Exit(a.cmdStat(os.Args[2:]))

	default:
		fmt.Fprintf(os.Stderr, "ipfslog: unknown command %q\n", os.Args[1])
		fmt.Fprintln(os.Stderr, "Run 'ipfslog --help' for usage.")
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Print(`ipfslog — append-only, replicated, content-addressed log

Entries form a signed DAG; a Lamport clock gives a deterministic total
order; join merges divergent replicas by content hash.

Usage:
  ipfslog <command> [flags]

Identity:
  identity-new [--name ID]      Generate and persist a signing identity
  identity-list                 List persisted identities

Log:
  init --log ID                 Create a new empty log
  append --log ID payload       Sign and append an entry
  heads --log ID                Show the log's current heads
  log --log ID                  Show the log's entries in order
  show --log ID --hash CID      Show one entry by hash
  join --log ID --from CID      Merge in the log reachable from a snapshot hash
  stat                          Show block store size

Environment:
  IPFSLOG_HOME       Directory holding block store + identity databases
  IPFSLOG_IDENTITY   Default signer identity
  IPFSLOG_LOG        Default log ID
  IPFSLOG_LOG_LEVEL  Log level for CLI diagnostics (default: info)

All commands support --json for machine-readable output.

Exit codes:
  0  success
  1  error
`)
}

func fatal(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "ipfslog: "+format+"\n", args...)
	os.Exit(1)
}
