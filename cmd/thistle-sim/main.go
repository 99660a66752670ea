// thistle-sim drives a simulated coin ledger from the command line.
//
// Usage:
//
//	thistle-sim run [flags]     Run the demo scenario
//	thistle-sim seed <cmd>      Manage encrypted keyring seeds
//	thistle-sim --help          Show help
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/thistlenet/thistle-sim/config"
	"github.com/thistlenet/thistle-sim/internal/keys"
	"github.com/thistlenet/thistle-sim/internal/log"
	"github.com/thistlenet/thistle-sim/internal/session"
	"github.com/thistlenet/thistle-sim/pkg/coin"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	var err error
	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "run":
		err = cmdRun(args)
	case "seed":
		err = cmdSeed(args)
	case "help", "--help", "-h":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		usage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: thistle-sim <command> [flags]

Commands:
  run                      Run the demo scenario
    --datadir <path>       Persist ledger state under this directory
    --mnemonic <phrase>    BIP-39 phrase seeding the actor keyring
    --seed <name>          Load the keyring seed from the keystore instead
    --keystore <path>      Keystore directory (default: ~/.thistle-sim/keystore)
    --log-level <level>    debug, info, warn, or error (default: info)
    --json-logs            Emit JSON logs instead of console output

  seed init --name <n>     Generate a mnemonic and store its encrypted seed
  seed show --name <n>     Decrypt and print a stored seed
    --keystore <path>      Keystore directory for both subcommands
`)
}

func defaultKeystoreDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".thistle-sim", "keystore")
	}
	return filepath.Join(home, ".thistle-sim", "keystore")
}

func cmdRun(args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	dataDir := fs.String("datadir", "", "persist ledger state under this directory")
	mnemonic := fs.String("mnemonic", config.DefaultMnemonic, "BIP-39 phrase seeding the actor keyring")
	seedName := fs.String("seed", "", "load the keyring seed from the keystore")
	keystoreDir := fs.String("keystore", defaultKeystoreDir(), "keystore directory")
	logLevel := fs.String("log-level", "info", "log level")
	jsonLogs := fs.Bool("json-logs", false, "emit JSON logs")
	if err := fs.Parse(args); err != nil {
		return err
	}

	log.Init(*logLevel, *jsonLogs)

	cfg := config.Default()
	cfg.DataDir = *dataDir
	cfg.Mnemonic = *mnemonic
	cfg.Log = config.LogConfig{Level: *logLevel, JSON: *jsonLogs}

	if *seedName != "" {
		ks, err := keys.NewKeystore(*keystoreDir)
		if err != nil {
			return err
		}
		password, err := promptPassword("Keystore password: ")
		if err != nil {
			return err
		}
		seed, err := ks.LoadSeed(*seedName, password)
		if err != nil {
			return err
		}
		cfg.Seed = seed
	}

	return runDemo(cfg)
}

// runDemo exercises the full spend pipeline: farming, a transfer, an
// on-ledger coin merge, and a contract launch.
func runDemo(cfg *config.Config) error {
	s, err := session.New(cfg)
	if err != nil {
		return err
	}
	defer s.Close()

	alice, err := s.MakeActor("alice")
	if err != nil {
		return err
	}
	bob, err := s.MakeActor("bob")
	if err != nil {
		return err
	}

	// Give alice three farmed rewards to work with.
	for i := 0; i < 3; i++ {
		if _, err := s.FarmBlock(alice); err != nil {
			return err
		}
	}
	fmt.Printf("height %d, alice holds %d in %d coins\n",
		s.Height(), alice.Balance(), alice.CoinCount())

	// A transfer worth more than any single reward forces alice to
	// merge coins on the ledger first.
	sent, err := alice.Give(bob, cfg.Protocol.BlockReward+1)
	if err != nil {
		return err
	}
	if sent == nil {
		return fmt.Errorf("transfer to bob was rejected")
	}
	fmt.Printf("alice -> bob: %d (coin %s)\n", sent.Amount, sent.ID().Short())
	fmt.Printf("alice: %d in %d coins, bob: %d in %d coins\n",
		alice.Balance(), alice.CoinCount(), bob.Balance(), bob.CoinCount())

	// Lock part of bob's balance under a contract script.
	contract := coin.NewContract(cfg.Protocol.GenesisChallenge, []byte("demo-escrow-v1"))
	locked, err := bob.LaunchContract(contract, 1000)
	if err != nil {
		return err
	}
	if locked == nil {
		return fmt.Errorf("contract launch was rejected")
	}
	fmt.Printf("contract %s holds coin %s worth %d\n",
		contract.PuzzleHash().Short(), locked.ID().Short(), locked.Amount)

	if err := s.SkipTime(time.Hour, nil); err != nil {
		return err
	}
	fmt.Printf("skipped to height %d, clock %s\n", s.Height(), s.Timestamp())
	return nil
}

func cmdSeed(args []string) error {
	if len(args) < 1 {
		usage()
		return fmt.Errorf("seed requires a subcommand")
	}

	fs := flag.NewFlagSet("seed "+args[0], flag.ExitOnError)
	name := fs.String("name", "", "seed name")
	keystoreDir := fs.String("keystore", defaultKeystoreDir(), "keystore directory")

	sub := args[0]
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}
	if *name == "" {
		return fmt.Errorf("--name is required")
	}
	ks, err := keys.NewKeystore(*keystoreDir)
	if err != nil {
		return err
	}

	switch sub {
	case "init":
		return seedInit(ks, *name)
	case "show":
		return seedShow(ks, *name)
	default:
		return fmt.Errorf("unknown seed subcommand: %s", sub)
	}
}

func seedInit(ks *keys.Keystore, name string) error {
	if ks.Exists(name) {
		return fmt.Errorf("seed %q already exists", name)
	}
	mnemonic, err := keys.GenerateMnemonic()
	if err != nil {
		return err
	}
	seed, err := keys.SeedFromMnemonic(mnemonic, "")
	if err != nil {
		return err
	}

	password, err := promptPassword("New keystore password: ")
	if err != nil {
		return err
	}
	confirm, err := promptPassword("Confirm password: ")
	if err != nil {
		return err
	}
	if string(password) != string(confirm) {
		return fmt.Errorf("passwords do not match")
	}
	if err := ks.SaveSeed(name, seed, password); err != nil {
		return err
	}

	fmt.Printf("Saved seed %q.\n\n", name)
	fmt.Printf("Recovery phrase (write it down, it is not stored):\n  %s\n", mnemonic)
	return nil
}

func seedShow(ks *keys.Keystore, name string) error {
	password, err := promptPassword("Keystore password: ")
	if err != nil {
		return err
	}
	seed, err := ks.LoadSeed(name, password)
	if err != nil {
		return err
	}
	fmt.Println(hex.EncodeToString(seed))
	return nil
}

func promptPassword(prompt string) ([]byte, error) {
	fmt.Fprint(os.Stderr, prompt)
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("read password: %w", err)
	}
	return password, nil
}
