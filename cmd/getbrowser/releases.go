package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ZebulonRouseFrantzich/getbrowser/internal/service"
)

// selectionFlags are the vendor/channel/platform flags of the release commands.
type selectionFlags struct {
	vendor   string
	channel  string
	platform string
}

func (f *selectionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.vendor, "vendor", "", "Browser vendor: chromium or firefox (default from config)")
	cmd.Flags().StringVar(&f.channel, "channel", "", "Release channel (default from config)")
	cmd.Flags().StringVar(&f.platform, "platform", "", "Target platform: windows, mac, mac-arm or linux (default: detect)")
}

func (a *app) releasesCmd() *cobra.Command {
	var (
		sel   selectionFlags
		limit int
	)

	cmd := &cobra.Command{
		Use:   "releases",
		Short: "List releases for a vendor, channel and platform",
		Long: `List the builds published on a channel for a platform, newest first,
with the URL of each download.

Examples:
  getbrowser releases
  getbrowser releases --vendor firefox --channel esr --platform linux
  getbrowser releases --vendor chromium --channel canary --limit 5 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit < 0 {
				return fmt.Errorf("--limit cannot be negative")
			}

			svc, cleanup, err := a.newService(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := svc.Releases(cmd.Context(), service.ReleasesRequest{
				Vendor:   sel.vendor,
				Channel:  sel.channel,
				Platform: sel.platform,
				Limit:    limit,
			})
			if err != nil {
				return err
			}
			return a.print(res, func(w io.Writer) { renderReleases(w, res) })
		},
	}

	sel.register(cmd)
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show at most this many releases (0 shows all)")
	return cmd
}

func (a *app) urlCmd() *cobra.Command {
	var sel selectionFlags

	cmd := &cobra.Command{
		Use:   "url <value>",
		Short: "Print the download URL of a build",
		Long: `Print the download URL of one build without contacting the release feeds.

<value> is the main-branch position for Chromium and the version for Firefox.

Examples:
  getbrowser url 1313161 --platform mac-arm
  getbrowser url 115.5.0esr --vendor firefox --channel esr --platform linux`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := a.newService(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := svc.ArtifactURL(cmd.Context(), service.ArtifactRequest{
				Vendor:   sel.vendor,
				Channel:  sel.channel,
				Platform: sel.platform,
				Value:    args[0],
			})
			if err != nil {
				return err
			}
			return a.print(res, func(w io.Writer) { fmt.Fprintln(w, res.URL) })
		},
	}

	sel.register(cmd)
	return cmd
}
