// This program performs administrative tasks for the fund me node.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/ardanlabs/conf/v3"
	"github.com/ardanlabs/fundme/app/tooling/admin/commands"
	"github.com/ardanlabs/fundme/foundation/blockchain/database"
	"github.com/ardanlabs/fundme/foundation/blockchain/storage/disk"
	"github.com/ardanlabs/fundme/foundation/blockchain/storage/leveldb"
	"github.com/ardanlabs/fundme/foundation/logger"
	"github.com/ardanlabs/fundme/foundation/nameservice"
	"go.uber.org/zap"
)

// build is the git version of this program. It is set using build flags in the makefile.
var build = "develop"

type config struct {
	conf.Version
	Args  conf.Args
	State struct {
		Beneficiary string `conf:"default:miner1"`
		Storage     string `conf:"default:disk,help:disk|leveldb"`
		DBPath      string `conf:"default:zblock/receipts.db"`
		GenesisPath string `conf:"default:zblock/genesis.json"`
	}
	NameService struct {
		Folder string `conf:"default:zblock/accounts/"`
	}
}

func main() {

	// Construct the application logger.
	log, err := logger.New("ADMIN", "stderr")
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	defer log.Sync()

	// Perform the startup and shutdown sequence.
	if err := run(log); err != nil {
		if !errors.Is(err, commands.ErrHelp) {
			log.Errorw("admin", "ERROR", err)
		}
		log.Sync()
		os.Exit(1)
	}
}

func run(log *zap.SugaredLogger) error {
	cfg := config{
		Version: conf.Version{
			Build: build,
			Desc:  "copyright information here",
		},
	}

	const prefix = "ADMIN"
	help, err := conf.Parse(prefix, &cfg)
	if err != nil {
		if errors.Is(err, conf.ErrHelpWanted) {
			fmt.Println(help)
			return nil
		}
		return fmt.Errorf("parsing config: %w", err)
	}

	ns, err := nameservice.New(cfg.NameService.Folder)
	if err != nil {
		return fmt.Errorf("unable to load account name service: %w", err)
	}

	var storage database.Serializer
	switch cfg.State.Storage {
	case "disk":
		d, err := disk.New(cfg.State.DBPath)
		if err != nil {
			return err
		}
		storage = d

	case "leveldb":
		l, err := leveldb.New(cfg.State.DBPath)
		if err != nil {
			return err
		}
		storage = l

	default:
		return fmt.Errorf("unknown storage kind %q", cfg.State.Storage)
	}
	defer storage.Close()

	return processCommands(cfg, log, ns, storage)
}

// processCommands handles the execution of the commands specified on
// the command line.
func processCommands(cfg config, log *zap.SugaredLogger, ns *nameservice.NameService, storage database.Serializer) error {
	switch cfg.Args.Num(0) {
	case "receipts":
		if err := commands.Receipts(os.Stdout, cfg.Args.Num(1), ns, storage); err != nil {
			return fmt.Errorf("listing receipts: %w", err)
		}

	case "ledger":
		lc := commands.LedgerConfig{
			Beneficiary: cfg.State.Beneficiary,
			GenesisPath: cfg.State.GenesisPath,
		}
		if err := commands.Ledger(os.Stdout, log, lc, ns, storage); err != nil {
			return fmt.Errorf("replaying ledger: %w", err)
		}

	default:
		fmt.Println("receipts [account]: list the persisted receipt log")
		fmt.Println("ledger:             replay the receipt log and print the fund me ledger")
		fmt.Println("provide a command to get more help.")
		return commands.ErrHelp
	}

	return nil
}
