package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"subclash/internal/config"
	"subclash/internal/convert"
	"subclash/internal/logger"

	"github.com/spf13/cobra"
)

var cfgFile string
var verbose bool
var logFile string

// Subscription and parse overrides, applied only when set on the command line.
var (
	fetchTimeout   time.Duration
	fetchUserAgent string
	fetchMaxBytes  int64
	fetchProxy     string
	fetchProgress  bool
	parseWorkers   int
)

var rootCmd = &cobra.Command{
	Use:   "subclash [SUB_LINK]",
	Short: "Turn a Shadowsocks subscription into Clash proxy entries",
	Long: `Fetches a base64 subscription, prints its ss:// links and a line count.
Use the render subcommand to produce Clash proxies entries and inspect for a summary.
Without SUB_LINK the configured default subscription is used.`,
	Args: cobra.ArbitraryArgs,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Init(verbose, logFile)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
	Run: runLinks,
}

func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// tooManyArgs prints usage when more than one SUB_LINK is given. The command
// then does nothing and exits normally.
func tooManyArgs(cmd *cobra.Command, args []string) bool {
	if len(args) <= 1 {
		return false
	}
	_ = cmd.Usage()
	return true
}

func changed(cmd *cobra.Command, name string) bool {
	f := cmd.Flags().Lookup(name)
	return f != nil && f.Changed
}

// loadConfig reads the config file and applies command line overrides.
func loadConfig(cmd *cobra.Command) *config.Config {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		logger.Log.Fatalf("Error loading config: %v", err)
	}

	if changed(cmd, "timeout") {
		cfg.Subscription.Timeout = fetchTimeout
	}
	if changed(cmd, "user-agent") {
		cfg.Subscription.UserAgent = fetchUserAgent
	}
	if changed(cmd, "max-bytes") {
		cfg.Subscription.MaxBytes = fetchMaxBytes
	}
	if changed(cmd, "proxy") {
		cfg.Subscription.Proxy = fetchProxy
	}
	if changed(cmd, "progress") {
		cfg.Subscription.Progress = fetchProgress
	}
	if changed(cmd, "workers") {
		cfg.Parse.Workers = parseWorkers
	}
	applyRenderFlags(cmd, cfg)

	if err := cfg.Validate(); err != nil {
		logger.Log.Fatalf("Invalid settings: %v", err)
	}
	return cfg
}

func fetchLines(cmd *cobra.Command, cfg *config.Config, args []string) []string {
	uri := cfg.SubscriptionURL(args)
	logger.Log.Debugf("Subscription: %s", uri)

	lines, err := convert.Fetch(cmd.Context(), uri, cfg.Subscription)
	if err != nil {
		logger.Log.Fatalf("Error fetching subscription: %v", err)
	}
	return lines
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./subclash.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to file instead of stderr (overwrites file)")

	rootCmd.PersistentFlags().DurationVar(&fetchTimeout, "timeout", 0, "Subscription fetch timeout")
	rootCmd.PersistentFlags().StringVar(&fetchUserAgent, "user-agent", "", "User-Agent sent with the subscription request")
	rootCmd.PersistentFlags().Int64Var(&fetchMaxBytes, "max-bytes", 0, "Maximum subscription body size")
	rootCmd.PersistentFlags().StringVar(&fetchProxy, "proxy", "", "Upstream proxy for the fetch (http://, https:// or socks5://)")
	rootCmd.PersistentFlags().BoolVar(&fetchProgress, "progress", false, "Show a download progress bar on stderr")
	rootCmd.PersistentFlags().IntVar(&parseWorkers, "workers", 0, "Concurrent URI parsers")
}
