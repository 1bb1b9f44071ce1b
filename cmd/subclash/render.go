package main

import (
	"subclash/internal/config"
	"subclash/internal/convert"
	"subclash/internal/logger"
	"subclash/internal/publishers"

	"github.com/spf13/cobra"
)

var (
	renderAll    bool
	renderDedupe bool
	renderPolicy string
	renderOutput string
	renderWrap   bool
)

var renderCmd = &cobra.Command{
	Use:   "render [SUB_LINK]",
	Short: "Render Clash proxies entries from a subscription",
	Long: `Renders the first usable entry of the subscription as a one-line Clash proxies item.
Use --all to render every entry and --dedupe to drop repeated servers.`,
	Args: cobra.ArbitraryArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if tooManyArgs(cmd, args) {
			return
		}
		cfg := loadConfig(cmd)
		lines := fetchLines(cmd, cfg, args)

		res := convert.Convert(lines, convert.OptionsFrom(cfg))
		if len(res.Fragments) == 0 {
			return
		}

		name := "stdout"
		if renderOutput != "" {
			name = "file"
		}
		pub, err := publishers.Get(name)
		if err != nil {
			logger.Log.Fatalf("Error: %v", err)
		}
		target := publishers.Target{Out: cmd.OutOrStdout(), Path: renderOutput, Wrap: renderWrap}
		if err := pub.Publish(res.Fragments, target); err != nil {
			logger.Log.Fatalf("Error publishing fragments: %v", err)
		}
		logger.Log.Debugf("Rendered %d of %d entries", len(res.Fragments), len(res.Batch.Entries))
	},
}

func applyRenderFlags(cmd *cobra.Command, cfg *config.Config) {
	if changed(cmd, "all") {
		cfg.Render.All = renderAll
	}
	if changed(cmd, "dedupe") {
		cfg.Render.Dedupe = renderDedupe
	}
	if changed(cmd, "malformed-plugin") {
		cfg.Render.MalformedPlugin = renderPolicy
	}
}

func init() {
	renderCmd.Flags().BoolVar(&renderAll, "all", false, "Render every entry, not just the first")
	renderCmd.Flags().BoolVar(&renderDedupe, "dedupe", false, "Drop entries identical to an earlier one")
	renderCmd.Flags().StringVar(&renderPolicy, "malformed-plugin", config.PluginPolicyDegrade, "Plugin tokens without '=': degrade or reject")
	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "Write to file instead of stdout")
	renderCmd.Flags().BoolVar(&renderWrap, "wrap", false, "Emit a complete proxies: document")
	rootCmd.AddCommand(renderCmd)
}
