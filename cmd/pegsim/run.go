package main

import (
	"context"
	"fmt"
	"os"

	"code.pegsim.io/pegsim/config"
	"code.pegsim.io/pegsim/libs/num"
	"code.pegsim.io/pegsim/logging"
	"code.pegsim.io/pegsim/metrics"
	"code.pegsim.io/pegsim/simulation"
	"code.pegsim.io/pegsim/types"

	"github.com/spf13/cobra"
)

var (
	runTicks     int
	runBankers   int
	runEndowment string
	runWatch     bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the simulation",
	Long:  "Load the configuration, build the engine stack and step the simulation",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSimulation()
	},
}

func init() {
	runCmd.Flags().IntVarP(&runTicks, "ticks", "t", 0,
		"Number of ticks to run, 0 uses the configured value")
	runCmd.Flags().IntVarP(&runBankers, "bankers", "b", 2,
		"Number of banker agents to schedule")
	runCmd.Flags().StringVarP(&runEndowment, "endowment", "e", "1000",
		"Reserve endowment granted to each banker")
	runCmd.Flags().BoolVarP(&runWatch, "watch", "w", false,
		"Reload the configuration file when it changes")
}

func runSimulation() error {
	log := logging.NewLoggerFromEnv(os.Getenv("PEGSIM_ENV"))
	defer log.AtExit()

	cfg, err := config.Read(rootPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return err
		}
		log.Info("no configuration found, using defaults",
			logging.String("root-path", rootPath))
		def := config.NewDefaultConfig()
		cfg = &def
	}

	var watcher *config.Watcher
	if runWatch {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		if watcher, err = config.NewFromFile(ctx, log, rootPath); err != nil {
			return err
		}
	}

	metrics.Start(cfg.Metrics)

	engine := simulation.New(log, cfg.Simulation,
		cfg.Ledger, cfg.Matching, cfg.Settlement, cfg.Fee, cfg.Mint, cfg.Agents)

	if watcher != nil {
		watcher.OnConfigUpdate(func(c config.Config) {
			engine.Fees().ReloadConf(c.Fee)
		})
	}

	endowment, err := num.DecimalFromString(runEndowment)
	if err != nil {
		return fmt.Errorf("invalid endowment: %w", err)
	}
	escrow := endowment.Div(num.DecimalFromInt64(2))
	for i := 1; i <= runBankers; i++ {
		party := fmt.Sprintf("banker-%02d", i)
		if _, err := engine.AddBanker(party); err != nil {
			return err
		}
		if err := engine.Ledger().Endow(party, types.AssetReserve, endowment); err != nil {
			return err
		}
		if err := engine.Mint().EscrowReserve(party, escrow); err != nil {
			return err
		}
	}

	ticks := runTicks
	if ticks <= 0 {
		ticks = cfg.Simulation.Ticks
	}
	log.Info("starting simulation",
		logging.Int("ticks", ticks),
		logging.Int("bankers", runBankers),
	)
	for i := 0; i < ticks; i++ {
		engine.Step()
		if watcher != nil {
			watcher.Flush()
		}
	}

	log.Info("simulation finished",
		logging.Int64("tick", engine.Ledger().Now()),
		logging.Int("trades", len(engine.Trades())),
		logging.Decimal("token-supply", engine.Ledger().TokenSupply()),
		logging.Decimal("token-fee-pool", engine.Ledger().Pool(types.AssetToken)),
		logging.Decimal("fees-distributed", engine.Fees().FeesDistributed()),
	)
	return nil
}
