package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
)

func (a *app) cacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear cached feed responses",
		Long: `Cached feed responses are only used in development mode. These
commands work in either mode.`,
	}
	cmd.AddCommand(a.cacheListCmd(), a.cacheClearCmd())
	return cmd
}

func (a *app) cacheListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cached responses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := a.newService(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			status, err := svc.CacheEntries(cmd.Context())
			if err != nil {
				return err
			}
			return a.print(status, func(w io.Writer) { renderCacheEntries(w, status, time.Now()) })
		},
	}
}

func (a *app) cacheClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached response",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, cleanup, err := a.newService(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			n, err := svc.ClearCache(cmd.Context())
			if err != nil {
				return err
			}
			out := struct {
				Removed int `json:"removed"`
			}{Removed: n}
			return a.print(out, func(w io.Writer) {
				fmt.Fprintf(w, "%s Removed %d cached response(s)\n", okStyle.Render("✓"), n)
			})
		},
	}
}
