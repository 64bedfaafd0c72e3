// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/stakerewards/api"
	"github.com/vechain/stakerewards/api/admin/health"
	"github.com/vechain/stakerewards/cmd/stakerd/httpserver"
	"github.com/vechain/stakerewards/kv"
	"github.com/vechain/stakerewards/log"
	"github.com/vechain/stakerewards/logdb"
	"github.com/vechain/stakerewards/metrics"
	"github.com/vechain/stakerewards/runtime"
)

var (
	version   string
	gitCommit string
	gitTag    string
	logger    = log.WithContext("pkg", "stakerd")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "stakerd",
		Usage:     "Staking and reward accounting node",
		Copyright: "2025 VeChain Foundation <https://vechain.org/>",
		Flags: []cli.Flag{
			dataDirFlag,
			configFlag,
			envFileFlag,
			adminFlag,
			apiAddrFlag,
			apiCorsFlag,
			apiLogsLimitFlag,
			enableAPILogsFlag,
			apiSlowQueriesThresholdFlag,
			apiLog5xxErrorsFlag,
			verbosityFlag,
			jsonLogsFlag,
			pprofFlag,
			skipLogsFlag,
			enableMetricsFlag,
			metricsAddrFlag,
			enableAdminFlag,
			adminAddrFlag,
			ntpServerFlag,
		},
		Action: defaultAction,
		Commands: []cli.Command{
			{
				Name:  "solo",
				Usage: "in-memory node with funded accounts for test & dev",
				Flags: []cli.Flag{
					dataDirFlag,
					configFlag,
					envFileFlag,
					apiAddrFlag,
					apiCorsFlag,
					apiLogsLimitFlag,
					enableAPILogsFlag,
					apiSlowQueriesThresholdFlag,
					apiLog5xxErrorsFlag,
					verbosityFlag,
					jsonLogsFlag,
					pprofFlag,
					skipLogsFlag,
					enableMetricsFlag,
					metricsAddrFlag,
					enableAdminFlag,
					adminAddrFlag,
					persistFlag,
				},
				Action: soloAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	exitSignal := handleExitSignal()
	defer func() { logger.Info("exited") }()

	logLevel := initLogger(ctx)
	cfg := loadRuntimeConfig(ctx, &Config{})
	instanceDir := makeInstanceDir(ctx, cfg.Params.Contract)

	mainDB := openMainDB(instanceDir)
	defer func() { logger.Info("closing main database..."); mainDB.Close() }()

	logDB := openLogDB(instanceDir)
	defer func() { logger.Info("closing log database..."); logDB.Close() }()

	return runNode(ctx, exitSignal, logLevel, &node{
		name:        "stakerd",
		cfg:         cfg,
		store:       mainDB,
		logDB:       logDB,
		instanceDir: instanceDir,
	})
}

func soloAction(ctx *cli.Context) error {
	exitSignal := handleExitSignal()
	defer func() { logger.Info("exited") }()

	logLevel := initLogger(ctx)
	cfg := loadRuntimeConfig(ctx, soloConfig())

	var (
		mainDB      kv.GetPutCloser
		logDB       *logdb.LogDB
		instanceDir string
	)
	if ctx.Bool(persistFlag.Name) {
		instanceDir = makeInstanceDir(ctx, cfg.Params.Contract)
		mainDB = openMainDB(instanceDir)
		logDB = openLogDB(instanceDir)
	} else {
		instanceDir = "Memory"
		mainDB = openMemMainDB()
		logDB = openMemLogDB()
	}
	defer func() { logger.Info("closing main database..."); mainDB.Close() }()
	defer func() { logger.Info("closing log database..."); logDB.Close() }()

	return runNode(ctx, exitSignal, logLevel, &node{
		name:        "stakerd solo",
		cfg:         cfg,
		store:       mainDB,
		logDB:       logDB,
		instanceDir: instanceDir,
		solo:        true,
	})
}

type node struct {
	name        string
	cfg         *runtime.Config
	store       kv.Store
	logDB       *logdb.LogDB
	instanceDir string
	solo        bool
}

// runNode serves the runtime until exitSignal is done.
func runNode(ctx *cli.Context, exitSignal context.Context, logLevel *slog.LevelVar, n *node) error {
	// meters resolve on first use, so prometheus goes in before the runtime
	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	rt, err := runtime.New(n.store, n.logDB, n.cfg)
	if err != nil {
		return errors.WithMessage(err, "init runtime")
	}

	healthStatus := health.NewHealth(rt, time.Minute)
	go checkClockOffset(ctx.String(ntpServerFlag.Name), healthStatus)

	apiLogs := &atomic.Bool{}
	apiLogs.Store(ctx.Bool(enableAPILogsFlag.Name))

	apiURL, srvCloser, err := httpserver.StartAPIServer(
		ctx.String(apiAddrFlag.Name),
		api.New(rt, api.Options{
			AllowedOrigins:       ctx.String(apiCorsFlag.Name),
			PprofOn:              ctx.Bool(pprofFlag.Name),
			SkipLogs:             ctx.Bool(skipLogsFlag.Name),
			EnableReqLogger:      apiLogs,
			SlowQueriesThreshold: time.Duration(ctx.Uint64(apiSlowQueriesThresholdFlag.Name)) * time.Millisecond,
			Log5xxErrors:         ctx.Bool(apiLog5xxErrorsFlag.Name),
			EnableMetrics:        ctx.Bool(enableMetricsFlag.Name),
			LogsLimit:            ctx.Uint64(apiLogsLimitFlag.Name),
		}),
	)
	if err != nil {
		return err
	}
	defer func() { logger.Info("stopping API server..."); srvCloser() }()

	if ctx.Bool(enableMetricsFlag.Name) {
		url, closeFunc, err := httpserver.StartMetricsServer(ctx.String(metricsAddrFlag.Name))
		if err != nil {
			return err
		}
		defer func() { logger.Info("stopping metrics server..."); closeFunc() }()
		logger.Info("metrics server listening", "url", url)
	}

	if ctx.Bool(enableAdminFlag.Name) {
		url, closeFunc, err := httpserver.StartAdminServer(ctx.String(adminAddrFlag.Name), logLevel, apiLogs, healthStatus)
		if err != nil {
			return err
		}
		defer func() { logger.Info("stopping admin server..."); closeFunc() }()
		logger.Info("admin server listening", "url", url)
	}

	printStartupMessage(n.name, n.cfg, rt, n.instanceDir, apiURL)
	if n.solo {
		printSoloAccounts(n.cfg)
	}

	<-exitSignal.Done()
	return nil
}
