package main

import (
	"subclash/internal/convert"
	"subclash/internal/logger"
	"subclash/internal/report"

	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect [SUB_LINK]",
	Short: "Summarize what a subscription contains",
	Long:  `Parses and renders every entry, then prints protocol counts, skip reasons and render results.`,
	Args:  cobra.ArbitraryArgs,
	Run: func(cmd *cobra.Command, args []string) {
		if tooManyArgs(cmd, args) {
			return
		}
		cfg := loadConfig(cmd)
		lines := fetchLines(cmd, cfg, args)

		opts := convert.OptionsFrom(cfg)
		opts.All = true
		res := convert.Convert(lines, opts)

		rep := report.New()
		rep.Observe(res)
		if err := rep.PrintReport(cmd.OutOrStdout()); err != nil {
			logger.Log.Fatalf("Error printing report: %v", err)
		}
	},
}

func init() {
	inspectCmd.Flags().BoolVar(&renderDedupe, "dedupe", false, "Count entries identical to an earlier one as duplicates")
	rootCmd.AddCommand(inspectCmd)
}
