package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/mutestr/mutestr/internal/config"
	"github.com/mutestr/mutestr/internal/discover"
	"github.com/mutestr/mutestr/internal/logging"
	"github.com/mutestr/mutestr/internal/relays"
	"github.com/mutestr/mutestr/internal/repositories/kvstore"
	"github.com/mutestr/mutestr/internal/services"
	"github.com/mutestr/mutestr/internal/signer"
	"github.com/mutestr/mutestr/internal/storage"
	"github.com/mutestr/mutestr/internal/syncx"

	_ "modernc.org/sqlite"
)

// App holds the wired-up client: local storage, key ring, relay gateway
// and the per-category services. Services exist only while the key ring
// is unlocked, because every record is bound to the active identity.
type App struct {
	cfg     *config.Config
	log     logging.Logger
	db      *sql.DB
	store   kvstore.Store
	ring    *signer.KeyRing
	pool    relays.Pool
	gateway *relays.Gateway
	scanner *discover.Scanner
	reader  *bufio.Reader

	signer    signer.Signer
	protected *services.ProtectedUsers
	blacklist *services.Blacklist
	prefs     *services.Preferences
	packs     *services.ImportedPacks
	backup    *services.ProfileBackup
	manager   *syncx.Manager
}

func NewApp(c *config.Config) (*App, error) {
	ctx := context.Background()
	log := logging.NewDefault()

	db, err := storage.Open(ctx, c.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("initializing database: %w", err)
	}

	store := kvstore.NewSQLiteStore(db)
	pool := relays.NewNostrPool(log)
	gateway := relays.NewGateway(pool, log)

	return &App{
		cfg:     c,
		log:     log,
		db:      db,
		store:   store,
		ring:    signer.NewKeyRing(store),
		pool:    pool,
		gateway: gateway,
		scanner: discover.NewScanner(gateway, log, c.FetchTimeout),
		reader:  bufio.NewReader(os.Stdin),
	}, nil
}

// wireServices builds the identity-bound service set after an unlock.
func (a *App) wireServices(s signer.Signer) {
	a.signer = s

	d := services.Deps{
		Store:          a.store,
		Gateway:        a.gateway,
		Signer:         s,
		Log:            a.log,
		FetchTimeout:   a.cfg.FetchTimeout,
		PublishTimeout: a.cfg.PublishTimeout,
	}
	a.protected = services.NewProtectedUsers(d)
	a.blacklist = services.NewBlacklist(d)
	a.prefs = services.NewPreferences(d)
	a.packs = services.NewImportedPacks(d)
	a.backup = services.NewProfileBackup(d)

	a.manager = syncx.NewManager(a.cfg.RelayURLs, a.log,
		a.protected, a.blacklist, a.prefs, a.packs, a.backup)
}

func (a *App) isUnlocked() bool {
	return a.signer != nil
}

// Run starts the interactive session and blocks until the user exits.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	fmt.Println("mutestr CLI (type 'help' for commands)")

	initialized, err := a.ring.Initialized(ctx)
	if err != nil {
		a.log.Error(ctx, "key ring check failed", "err", err)
		return
	}
	if initialized {
		_ = a.Unlock(ctx)
	} else {
		fmt.Println("No key found. Type 'create' to set up your identity.")
	}

	runREPL(ctx, a, a.getStatus, bufio.NewScanner(os.Stdin))
}

func (a *App) getStatus() string {
	if !a.isUnlocked() {
		return "(locked)"
	}
	pk := a.signer.PublicKey()
	if len(pk) > 8 {
		pk = pk[:8]
	}
	return fmt.Sprintf("(%s)", pk)
}

// Close releases relay connections and the local database.
func (a *App) Close() {
	a.pool.Close()
	if err := a.db.Close(); err != nil {
		a.log.Warn(context.Background(), "closing database", "err", err)
	}
}
