package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ipfs/go-cid"
	"github.com/sirupsen/logrus"

	"github.com/daviddao/ipfslog/internal/config"
	"github.com/daviddao/ipfslog/internal/identitystore"
	"github.com/daviddao/ipfslog/internal/logging"
	"github.com/daviddao/ipfslog/pkg/blockstore"
	"github.com/daviddao/ipfslog/pkg/identity"
	"github.com/daviddao/ipfslog/pkg/ipfslog"
)

// app holds shared state for all CLI subcommands.
type app struct {
	cfg    *config.Config
	store  *blockstore.SQLite
	idents *identitystore.Store
	log    *logrus.Logger
}

// newApp resolves config, opens the block store and identity store.
func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("cannot resolve config: %w", err)
	}
	store, err := blockstore.OpenSQLite(cfg.BlockstorePath())
	if err != nil {
		return nil, fmt.Errorf("cannot open block store %q: %w", cfg.BlockstorePath(), err)
	}
	idents, err := identitystore.Open(cfg.IdentityStorePath())
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("cannot open identity store %q: %w", cfg.IdentityStorePath(), err)
	}
	return &app{
		cfg:    cfg,
		store:  store,
		idents: idents,
		log:    logging.New(false),
	}, nil
}

// Close releases the database connections.
func (a *app) Close() {
	a.store.Close()
	a.idents.Close()
}

// resolveIdentity loads the signer named by flagVal, falling back to
// IPFSLOG_IDENTITY.
func (a *app) resolveIdentity(flagVal string) (*identity.Signer, error) {
	name := flagVal
	if name == "" {
		name = a.cfg.DefaultIdent
	}
	if name == "" {
		return nil, fmt.Errorf("no identity: pass --identity or set IPFSLOG_IDENTITY (see 'ipfslog identity-new')")
	}
	return a.idents.Load(name)
}

// resolveLogID returns the log ID from the flag, falling back to
// IPFSLOG_LOG.
func (a *app) resolveLogID(flagVal string) (string, error) {
	id := flagVal
	if id == "" {
		id = a.cfg.DefaultLogID
	}
	if id == "" {
		return "", fmt.Errorf("no log id: pass --log or set IPFSLOG_LOG")
	}
	return id, nil
}

// trustedProvider builds an identity.Provider that knows every
// identity this replica has ever persisted — enough for Allowlist-style
// access controllers to resolve IDs during join.
func (a *app) trustedProvider() (*identity.Provider, error) {
	known, err := a.idents.List()
	if err != nil {
		return nil, err
	}
	return identity.NewProvider(known...), nil
}

// headRefPath returns the path of the small pointer file recording the
// most recently published snapshot hash for logID — the only per-log
// state the CLI keeps outside the block store itself.
func (a *app) headRefPath(logID string) string {
	return filepath.Join(a.cfg.HomeDir, "logs", safeFileName(logID)+".head")
}

func safeFileName(id string) string {
	return strings.NewReplacer("/", "_", ":", "_").Replace(id)
}

// openLog loads logID from its last published snapshot, if any, or
// returns a fresh empty log under signer's identity otherwise.
func (a *app) openLog(ctx context.Context, logID string, signer *identity.Signer) (*ipfslog.Log, error) {
	provider, err := a.trustedProvider()
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(a.headRefPath(logID))
	if err != nil {
		if os.IsNotExist(err) {
			return ipfslog.New(a.store, signer, provider, &ipfslog.Options{ID: logID})
		}
		return nil, fmt.Errorf("read head pointer: %w", err)
	}

	hash, err := cid.Decode(strings.TrimSpace(string(raw)))
	if err != nil {
		return nil, fmt.Errorf("parse head pointer: %w", err)
	}
	return ipfslog.FromMultihash(ctx, a.store, signer, provider, hash, -1, &ipfslog.Options{ID: logID})
}

// persistHead publishes l's current snapshot to the block store and
// updates the on-disk pointer to it.
func (a *app) persistHead(ctx context.Context, l *ipfslog.Log) error {
	hash, err := l.ToMultihash(ctx, a.store)
	if err != nil {
		return fmt.Errorf("publish snapshot: %w", err)
	}
	path := a.headRefPath(l.ID())
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}
	return os.WriteFile(path, []byte(hash.String()+"\n"), 0o644)
}

// newLogWithID creates a fresh log under id, or a timestamp-derived id
// if id is empty.
func newLogWithID(store *blockstore.SQLite, signer *identity.Signer, provider *identity.Provider, id string) (*ipfslog.Log, error) {
	return ipfslog.New(store, signer, provider, &ipfslog.Options{ID: id})
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
