package commands

import (
	"context"
	"os"
	"os/signal"
	"path"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/scottpeterman/termtelent-sub002/internal/config"
	"github.com/scottpeterman/termtelent-sub002/internal/crawler"
	"github.com/scottpeterman/termtelent-sub002/internal/event"
	"github.com/scottpeterman/termtelent-sub002/internal/logger"
	"github.com/scottpeterman/termtelent-sub002/internal/parse"
	"github.com/scottpeterman/termtelent-sub002/internal/platform"
	"github.com/scottpeterman/termtelent-sub002/internal/session"
	"github.com/scottpeterman/termtelent-sub002/internal/store"
	"github.com/scottpeterman/termtelent-sub002/internal/topology"
)

// Root builds and returns our root command
func Root() *cobra.Command {
	var verbose bool
	var silent bool
	var logToFile bool
	var configPath string

	cmd := &cobra.Command{
		Use:   "seedcrawl",
		Short: "Discover network topology from a seed device",
		// This runs before all commands and all sub-commands
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// set logging verbosity for all loggers
			zerolog.SetGlobalLevel(zerolog.InfoLevel)

			if verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}

			if silent {
				zerolog.SetGlobalLevel(zerolog.Disabled)
			}

			if logToFile {
				logFile, ok := viper.Get("log-file").(string)

				if ok && logFile != "" {
					f, err := os.OpenFile(logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)

					if err != nil {
						return err
					}

					logger.GlobalSetLogFile(f)
				}
			}

			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCrawl(cmd.Context(), configPath)
		},
	}

	// Persistent flags available to all commands
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show debug logs")
	cmd.PersistentFlags().BoolVar(&silent, "silent", false, "disables all logging")
	cmd.PersistentFlags().BoolVar(&logToFile, "log-to-file", false, "redirect logs to the run-time log file")
	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "seedcrawl.yml", "path to crawl config file")

	cmd.AddCommand(sweepCmd())
	cmd.AddCommand(version())

	return cmd
}

// runCrawl wires the full pipeline: config, template parser, detector,
// crawler, assembler, export, inventory
func runCrawl(ctx context.Context, configPath string) error {
	log := logger.New()

	conf, err := config.New(configPath)

	if err != nil {
		return err
	}

	templateDB, err := parse.OpenDatabase(conf.TemplateDB)

	if err != nil {
		return err
	}

	parser := parse.NewTemplateEngine(parse.NewSqliteRepo(templateDB))
	dialer := session.NewSSHDialer()
	prober := session.NewTCPProber(conf.Crawl.Timeout)
	detector := platform.NewDetector(dialer, prober, parser)

	events := make(chan *event.Event, 100)
	defer close(events)

	go logProgress(events)

	service := crawler.NewCrawlService(&conf.Crawl, detector, dialer, parser, events)

	// stop the crawl cleanly on interrupt, keeping partial results
	crawlCtx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	result, runErr := service.Crawl(crawlCtx)

	mapPath := path.Join(conf.Output.Directory, conf.Output.MapName+".json")

	if runErr != nil {
		log.Warn().Err(runErr).Msg("crawl interrupted, dumping partial results")

		dumpPath := path.Join(conf.Output.Directory, conf.Output.MapName+"_partial.json")

		return topology.DumpDevices(result.Devices, dumpPath)
	}

	assembler := topology.NewAssembler()
	graph := assembler.Assemble(result.Devices)

	for _, issue := range assembler.Validate(graph) {
		log.Warn().
			Str("from", issue.From).
			Str("to", issue.To).
			Str("localPort", issue.LocalPort).
			Str("remotePort", issue.RemotePort).
			Msg("asymmetric connection after repair")
	}

	if err := graph.WriteFile(mapPath); err != nil {
		return err
	}

	log.Info().Str("path", mapPath).Msg("topology map written")

	persistInventory(conf, result)

	return nil
}

// persistInventory best-effort saves discovered devices. Inventory
// failures never fail the run.
func persistInventory(conf *config.Config, result *crawler.Result) {
	log := logger.New()

	repo, err := store.NewSqliteRepo(conf.InventoryDB)

	if err != nil {
		log.Warn().Err(err).Msg("failed to open inventory database")
		return
	}

	for _, device := range result.Devices {
		if err := repo.Upsert(store.RecordFromDevice(device)); err != nil {
			log.Warn().
				Err(err).
				Str("hostname", device.Hostname).
				Msg("failed to persist device")
		}
	}
}

func logProgress(events chan *event.Event) {
	log := logger.New()

	for evt := range events {
		progress, ok := evt.Payload.(event.Progress)

		if !ok {
			continue
		}

		log.Debug().
			Str("type", string(evt.Type)).
			Str("address", progress.Address).
			Int("discovered", progress.DevicesDiscovered).
			Int("queued", progress.DevicesQueued).
			Msg("crawl progress")
	}
}
