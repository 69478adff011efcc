package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/daviddao/ipfslog/pkg/identity"
)

func (a *app) cmdIdentityNew(args []string) int {
	flags := flag.NewFlagSet("identity-new", flag.ContinueOnError)
	name := flags.String("name", "", "identity name (random if omitted)")
	jsonOut := flags.Bool("json", false, "JSON output")
	if err := flags.Parse(args); err != nil {
		return 1
	}

	signer, err := identity.New(*name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ipfslog: identity-new: %v\n", err)
		return 1
	}
	if err := a.idents.Save(signer); err != nil {
		fmt.Fprintf(os.Stderr, "ipfslog: identity-new: %v\n", err)
		return 1
	}

	if *jsonOut {
		printJSON(signer.Identity)
	} else {
		fmt.Printf("created identity %s (%s)\n", signer.Identity.ID, signer.Identity.Type)
	}
	return 0
}

func (a *app) cmdIdentityList(args []string) int {
	flags := flag.NewFlagSet("identity-list", flag.ContinueOnError)
	jsonOut := flags.Bool("json", false, "JSON output")
	if err := flags.Parse(args); err != nil {
		return 1
	}

	ids, err := a.idents.List()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ipfslog: identity-list: %v\n", err)
		return 1
	}

	if *jsonOut {
		printJSON(map[string]interface{}{"identities": ids, "count": len(ids)})
		return 0
	}
	if len(ids) == 0 {
		fmt.Println("no identities")
		return 0
	}
	for _, id := range ids {
		fmt.Printf("%s  %s  %s\n", id.ID, id.Type, id.PublicKey)
	}
	return 0
}
