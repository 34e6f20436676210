package cmd

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/yotaki/bancheck/internal/config"
	"github.com/yotaki/bancheck/internal/providers"
	"github.com/yotaki/bancheck/internal/providers/abema"
	"github.com/yotaki/bancheck/internal/providers/extractor"
	"github.com/yotaki/bancheck/internal/providers/nico"
	"github.com/yotaki/bancheck/internal/providers/tver"
	"github.com/yotaki/bancheck/internal/store"
)

var (
	verbose bool
	quiet   bool
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "bancheck",
	Short: "Track streaming programs and detect newly downloadable episodes",
	Long: `bancheck tracks episodic programs across streaming platforms
(ABEMA, TVer, Nicovideo), re-fetches their metadata on demand, and
diffs the result against the last stored snapshot to surface episodes
that became downloadable or dropped their premium restriction.

Diagnostics go to stderr; primary output goes to stdout.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(setupLogging)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "log errors only")
}

// setupLogging configures zerolog on stderr so stdout stays reserved
// for primary output.
func setupLogging() {
	level := zerolog.InfoLevel
	if quiet {
		level = zerolog.ErrorLevel
	} else if verbose {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
}

// app bundles the components every command needs: the configuration
// value, the snapshot store, and the extractor runner. Providers are
// registered here, in resolution order — the Nicovideo provider
// accepts any bare identifier, so it goes last.
type app struct {
	cfg    *config.Config
	store  *store.Store
	runner *extractor.Runner
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	runner := extractor.NewRunner(cfg)
	if len(providers.All()) == 0 {
		providers.Register(abema.New(cfg, runner))
		providers.Register(tver.New(cfg, runner))
		providers.Register(nico.New(cfg, runner))
	}

	return &app{
		cfg:    cfg,
		store:  store.New(cfg.Storage.ProgramsFile),
		runner: runner,
	}, nil
}
