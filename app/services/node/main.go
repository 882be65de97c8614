package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ardanlabs/fundme/app/services/node/handlers"
	"github.com/ardanlabs/fundme/foundation/blockchain/database"
	"github.com/ardanlabs/fundme/foundation/blockchain/genesis"
	"github.com/ardanlabs/fundme/foundation/blockchain/state"
	"github.com/ardanlabs/fundme/foundation/blockchain/storage/disk"
	"github.com/ardanlabs/fundme/foundation/blockchain/storage/leveldb"
	"github.com/ardanlabs/fundme/foundation/blockchain/storage/memory"
	"github.com/ardanlabs/fundme/foundation/events"
	"github.com/ardanlabs/fundme/foundation/logger"
	"github.com/ardanlabs/fundme/foundation/nameservice"
	"github.com/ardanlabs/conf/v3"
	"go.uber.org/zap"
)

// build is the git version of this program. It is set using build flags in the makefile.
var build = "develop"

func main() {

	// Construct the application logger.
	log, err := logger.New("NODE")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer log.Sync()

	// Perform the startup and shutdown sequence.
	if err := run(log); err != nil {
		log.Errorw("startup", "ERROR", err)
		log.Sync()
		os.Exit(1)
	}
}

func run(log *zap.SugaredLogger) error {

	// =========================================================================
	// Configuration

	// This is all the configuration for the application and the default values.
	// Configuration values will be passed through the application as individual
	// values.
	cfg := struct {
		conf.Version
		Web struct {
			ReadTimeout     time.Duration `conf:"default:5s"`
			WriteTimeout    time.Duration `conf:"default:10s"`
			IdleTimeout     time.Duration `conf:"default:120s"`
			ShutdownTimeout time.Duration `conf:"default:20s"`
			DebugHost       string        `conf:"default:0.0.0.0:7080"`
			PublicHost      string        `conf:"default:0.0.0.0:8080"`
		}
		State struct {
			Beneficiary string `conf:"default:miner1"`
			Storage     string `conf:"default:disk,help:memory|disk|leveldb"`
			DBPath      string `conf:"default:zblock/receipts.db"`
			GenesisPath string `conf:"default:zblock/genesis.json"`
		}
		NameService struct {
			Folder string `conf:"default:zblock/accounts/"`
		}
	}{
		Version: conf.Version{
			Build: build,
			Desc:  "copyright information here",
		},
	}

	// Parse will set the defaults and then look for any overriding values
	// in environment variables and command line flags.
	const prefix = "NODE"
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	// =========================================================================
	// App Starting

	fmt.Println(`  _____ _   _ _   _ ____    __  __ _____ `)
	fmt.Println(` |  ___| | | | \ | |  _ \  |  \/  | ____|`)
	fmt.Println(` | |_  | | | |  \| | | | | | |\/| |  _|  `)
	fmt.Println(` |  _| | |_| | |\  | |_| | | |  | | |___ `)
	fmt.Println(` |_|    \___/|_| \_|____/  |_|  |_|_____|`)
	fmt.Print("\n")

	log.Infow("starting service", "version", build)
	defer log.Infow("shutdown complete")

	// Display the current configuration to the logs.
	out, err := conf.String(&cfg)
	if err != nil {
		return fmt.Errorf("generating config for output: %w", err)
	}
	log.Infow("startup", "config", out)

	// =========================================================================
	// Name Service Support

	// The nameservice package provides name resolution for account addresses.
	// The names come from the file names in the zblock/accounts folder.
	ns, err := nameservice.New(cfg.NameService.Folder)
	if err != nil {
		return fmt.Errorf("unable to load account name service: %w", err)
	}

	// Logging the accounts for documentation in the logs.
	for account, name := range ns.Copy() {
		log.Infow("startup", "status", "nameservice", "name", name, "account", account)
	}

	// =========================================================================
	// Blockchain Support

	gen, err := genesis.Load(cfg.State.GenesisPath)
	if err != nil {
		return fmt.Errorf("unable to load genesis: %w", err)
	}

	// The beneficiary is credited with the gas fees paid by every transaction.
	beneficiaryID, err := ns.Resolve(cfg.State.Beneficiary)
	if err != nil {
		return fmt.Errorf("unable to resolve beneficiary: %w", err)
	}

	serializer, err := newStorage(cfg.State.Storage, cfg.State.DBPath)
	if err != nil {
		return err
	}

	// The blockchain packages accept a function of this signature to allow the
	// application to log. These raw messages are sent to any websocket client
	// that is connected into the system through the events package.
	evts := events.New()
	ev := func(v string, args ...any) {
		s := fmt.Sprintf(v, args...)
		log.Infow(s, "traceid", "00000000-0000-0000-0000-000000000000")

		switch {
		case strings.HasPrefix(s, "viewer:"), strings.HasPrefix(s, "fundme:"), strings.HasPrefix(s, "pricefeed:"):
			evts.Send(s)
		}
	}

	// The state value represents the blockchain node. Construction deploys the
	// contracts and replays the receipt log found in storage.
	state, err := state.New(state.Config{
		BeneficiaryID: beneficiaryID,
		Genesis:       gen,
		Storage:       serializer,
		EvHandler:     ev,
	})
	if err != nil {
		serializer.Close()
		return err
	}
	defer state.Shutdown()

	log.Infow("startup", "status", "contracts deployed", "fundme", state.RetrieveFundMe(), "pricefeed", state.RetrievePriceFeed(), "owner", state.RetrieveOwner(), "receipts", state.RetrieveLatestNumber())

	// =========================================================================
	// Start Debug Service

	log.Infow("startup", "status", "debug v1 router started", "host", cfg.Web.DebugHost)

	// The Debug function returns a mux to listen and serve on for all the debug
	// related endpoints. This includes the standard library endpoints.

	// Construct the mux for the debug calls.
	debugMux := handlers.DebugMux(build, log, state)

	// Start the service listening for debug requests.
	// Not concerned with shutting this down with load shedding.
	go func() {
		if err := http.ListenAndServe(cfg.Web.DebugHost, debugMux); err != nil {
			log.Errorw("shutdown", "status", "debug v1 router closed", "host", cfg.Web.DebugHost, "ERROR", err)
		}
	}()

	// =========================================================================
	// Service Start/Stop Support

	// Make a channel to listen for an interrupt or terminate signal from the OS.
	// Use a buffered channel because the signal package requires it.
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	// Make a channel to listen for errors coming from the listener. Use a
	// buffered channel so the goroutine can exit if we don't collect this error.
	serverErrors := make(chan error, 1)

	// =========================================================================
	// Start Public Service

	log.Infow("startup", "status", "initializing V1 public API support")

	// Construct the mux for the public API calls.
	publicMux := handlers.PublicMux(handlers.MuxConfig{
		Shutdown: shutdown,
		Log:      log,
		State:    state,
		NS:       ns,
		Evts:     evts,
	})

	// Construct a server to service the requests against the mux.
	public := http.Server{
		Addr:         cfg.Web.PublicHost,
		Handler:      publicMux,
		ReadTimeout:  cfg.Web.ReadTimeout,
		WriteTimeout: cfg.Web.WriteTimeout,
		IdleTimeout:  cfg.Web.IdleTimeout,
		ErrorLog:     zap.NewStdLog(log.Desugar()),
	}

	// Start the service listening for api requests.
	go func() {
		log.Infow("startup", "status", "public api router started", "host", public.Addr)
		serverErrors <- public.ListenAndServe()
	}()

	// =========================================================================
	// Shutdown

	// Blocking main and waiting for shutdown.
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		log.Infow("shutdown", "status", "shutdown started", "signal", sig)
		defer log.Infow("shutdown", "status", "shutdown complete", "signal", sig)

		// Release any web sockets that are currently active.
		log.Infow("shutdown", "status", "shutdown web socket channels")
		evts.Shutdown()

		// Give outstanding requests a deadline for completion.
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Web.ShutdownTimeout)
		defer cancel()

		// Asking listener to shut down and shed load.
		log.Infow("shutdown", "status", "shutdown public API started")
		if err := public.Shutdown(ctx); err != nil {
			public.Close()
			return fmt.Errorf("could not stop public service gracefully: %w", err)
		}
	}

	return nil
}

// newStorage constructs the receipt log for the configured storage kind.
func newStorage(kind string, dbPath string) (database.Serializer, error) {
	switch kind {
	case "memory":
		m, err := memory.New()
		if err != nil {
			return nil, err
		}
		return m, nil

	case "disk":
		d, err := disk.New(dbPath)
		if err != nil {
			return nil, fmt.Errorf("opening disk storage: %w", err)
		}
		return d, nil

	case "leveldb":
		l, err := leveldb.New(dbPath)
		if err != nil {
			return nil, err
		}
		return l, nil
	}

	return nil, fmt.Errorf("unknown storage kind %q", kind)
}
