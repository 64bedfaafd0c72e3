// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"syscall"
	"time"

	"github.com/beevik/ntp"
	"github.com/mattn/go-isatty"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/stakerewards/api/admin/health"
	"github.com/vechain/stakerewards/log"
	"github.com/vechain/stakerewards/logdb"
	"github.com/vechain/stakerewards/lvldb"
	"github.com/vechain/stakerewards/runtime"
	"github.com/vechain/stakerewards/thor"
)

// maxClockOffset is the local clock drift that triggers a warning.
const maxClockOffset = 5 * time.Second

func fatal(args ...any) {
	var w io.Writer
	outf, _ := os.Stdout.Stat()
	errf, _ := os.Stderr.Stat()
	if outf != nil && errf != nil && os.SameFile(outf, errf) {
		w = os.Stderr
	} else {
		w = io.MultiWriter(os.Stdout, os.Stderr)
	}
	fmt.Fprint(w, "Fatal: ")
	fmt.Fprintln(w, args...)
	os.Exit(1)
}

// initLogger installs the root logger and returns its level for the admin API.
func initLogger(ctx *cli.Context) *slog.LevelVar {
	logLevel := new(slog.LevelVar)
	logLevel.Set(log.FromLegacyLevel(ctx.Int(verbosityFlag.Name)))

	var handler slog.Handler
	if ctx.Bool(jsonLogsFlag.Name) || !isTerminal(os.Stderr) {
		handler = log.NewHandler(os.Stderr, log.FormatJSON, logLevel)
	} else {
		handler = log.NewHandler(os.Stderr, log.FormatLogfmt, logLevel)
	}
	log.SetDefault(log.NewLogger(handler))
	return logLevel
}

func isTerminal(f *os.File) bool {
	return (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) && os.Getenv("TERM") != "dumb"
}

func defaultDataDir() string {
	if home := homeDir(); home != "" {
		return filepath.Join(home, ".stakerd")
	}
	return ""
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}

// loadRuntimeConfig reads the config file, then applies the dotenv overrides and the flags.
func loadRuntimeConfig(ctx *cli.Context, cfg *Config) *runtime.Config {
	if err := cfg.load(ctx.String(configFlag.Name)); err != nil {
		fatal(err)
	}
	lookup, err := envLookup(ctx.String(envFileFlag.Name))
	if err != nil {
		fatal(err)
	}
	if err := cfg.applyEnv(lookup); err != nil {
		fatal(err)
	}
	if v := ctx.String(adminFlag.Name); v != "" {
		admin, err := thor.ParseAddress(v)
		if err != nil {
			fatal(fmt.Sprintf("parse -%s: %v", adminFlag.Name, err))
		}
		cfg.Staking.Admin = admin
	}
	rtCfg, err := cfg.runtimeConfig()
	if err != nil {
		fatal(fmt.Sprintf("config: %v", err))
	}
	return rtCfg
}

// makeInstanceDir returns the database directory of the contract, creating it if needed.
func makeInstanceDir(ctx *cli.Context, contract thor.Address) string {
	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		fatal(fmt.Sprintf("unable to infer default data dir, use -%s to specify one", dataDirFlag.Name))
	}
	instanceDir := filepath.Join(dataDir, fmt.Sprintf("instance-%x", contract.Bytes()[16:]))
	if err := os.MkdirAll(instanceDir, 0o700); err != nil {
		fatal(fmt.Sprintf("create instance dir [%v]: %v", instanceDir, err))
	}
	return instanceDir
}

func openMainDB(dir string) *lvldb.LevelDB {
	path := filepath.Join(dir, "main.db")
	db, err := lvldb.New(path, lvldb.Options{
		CacheSize:              128,
		OpenFilesCacheCapacity: 64,
	})
	if err != nil {
		fatal(fmt.Sprintf("open main database [%v]: %v", path, err))
	}
	return db
}

func openLogDB(dir string) *logdb.LogDB {
	path := filepath.Join(dir, "logs.db")
	db, err := logdb.New(path)
	if err != nil {
		fatal(fmt.Sprintf("open log database [%v]: %v", path, err))
	}
	return db
}

func openMemMainDB() *lvldb.LevelDB {
	db, err := lvldb.NewMem()
	if err != nil {
		fatal(fmt.Sprintf("open main database: %v", err))
	}
	return db
}

func openMemLogDB() *logdb.LogDB {
	db, err := logdb.NewMem()
	if err != nil {
		fatal(fmt.Sprintf("open log database: %v", err))
	}
	return db
}

// checkClockOffset compares the local clock with an NTP server and records the offset.
func checkClockOffset(server string, healthStatus *health.Health) {
	if server == "" {
		return
	}
	resp, err := ntp.Query(server)
	if err != nil {
		logger.Debug("failed to access NTP", "server", server, "err", err)
		return
	}
	healthStatus.ClockOffset(resp.ClockOffset)
	offset := resp.ClockOffset
	if offset < 0 {
		offset = -offset
	}
	if offset > maxClockOffset {
		logger.Warn("clock offset detected, rewards accrue on local time", "offset", resp.ClockOffset)
	}
}

func handleExitSignal() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	exitSignalCh := make(chan os.Signal, 1)
	signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-exitSignalCh
		logger.Info("exit signal received", "signal", sig)
		cancel()
	}()
	return ctx
}

func printStartupMessage(name string, cfg *runtime.Config, rt *runtime.Runtime, dataDir, apiURL string) {
	fmt.Printf(`Starting %v
    Contract     [ %v ]
    Token        [ %v %v ]
    Admin        [ %v ]
    Reward       [ lifetime %v, fixed apr %v bps ]
    Last op      [ #%v @%v ]
    Data dir     [ %v ]
    API portal   [ %v ]
`,
		name+" "+fullVersion(),
		cfg.Params.Contract,
		cfg.TokenSymbol, cfg.Token,
		cfg.Params.Admin,
		time.Duration(cfg.Params.RewardLifetime)*time.Second, cfg.Params.FixedAPR,
		rt.LastOp(), time.Unix(int64(rt.Now()), 0), //#nosec G115
		dataDir,
		apiURL)
}

func printSoloAccounts(cfg *runtime.Config) {
	tableHead := `
┌────────────────────────────────────────────┬──────────────────────────────────┐
│                   Address                  │              Balance             │`
	tableContent := `
├────────────────────────────────────────────┼──────────────────────────────────┤
│ %v │ %32v │`
	tableEnd := `
└────────────────────────────────────────────┴──────────────────────────────────┘`

	info := tableHead
	for _, a := range cfg.Genesis {
		info += fmt.Sprintf(tableContent, a.Address, a.Amount.Dec())
	}
	info += tableEnd + "\r\n"
	fmt.Print(info)
}
