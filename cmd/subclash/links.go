package main

import (
	"fmt"

	"subclash/internal/convert"
	"subclash/internal/proxy"

	"github.com/spf13/cobra"
)

var normalizeLinks bool

var linksCmd = &cobra.Command{
	Use:   "links [SUB_LINK]",
	Short: "Print the ss:// links of a subscription",
	Long:  `Prints every decoded line starting with ss://, then "Total N links" where N counts all decoded lines.`,
	Args:  cobra.ArbitraryArgs,
	Run:   runLinks,
}

func runLinks(cmd *cobra.Command, args []string) {
	if tooManyArgs(cmd, args) {
		return
	}
	cfg := loadConfig(cmd)
	lines := fetchLines(cmd, cfg, args)

	out := cmd.OutOrStdout()
	for _, link := range convert.Links(lines) {
		if normalizeLinks {
			link = normalize(link)
		}
		fmt.Fprintln(out, link)
	}
	fmt.Fprintf(out, "Total %d links\n", len(lines))
}

// normalize re-encodes a link that parses; anything else is printed as is.
func normalize(link string) string {
	e, err := proxy.Parse(link)
	if err != nil {
		return link
	}
	if ss, ok := e.(*proxy.Shadowsocks); ok {
		return ss.ToURI()
	}
	return link
}

func init() {
	linksCmd.Flags().BoolVar(&normalizeLinks, "normalize", false, "Re-encode parsed ss:// links in canonical form")
	rootCmd.AddCommand(linksCmd)
}
