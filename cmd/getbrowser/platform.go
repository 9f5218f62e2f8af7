package main

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/ZebulonRouseFrantzich/getbrowser/internal/browser"
	"github.com/ZebulonRouseFrantzich/getbrowser/internal/platform"
)

type platformOutput struct {
	ID      platform.ID `json:"id"`
	Label   string      `json:"label"`
	OSName  string      `json:"os_name"`
	CPUArch string      `json:"cpu_arch"`
	OS      string      `json:"os"`
	Arch    string      `json:"arch"`
}

func (a *app) platformCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "platform",
		Short: "Show the detected platform",
		Long:  "Inspect the host OS and CPU and report which download platform they map to.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := a.detector.Detect(cmd.Context())
			out := platformOutput{
				ID:      info.ID,
				Label:   info.ID.Label(),
				OSName:  info.OSName,
				CPUArch: info.CPUArch,
				OS:      info.OS,
				Arch:    info.Arch,
			}
			return a.print(out, func(w io.Writer) {
				field(w, "Platform", titleStyle.Render(out.Label)+" "+mutedStyle.Render(string(out.ID)))
				field(w, "OS", orUnknown(out.OSName))
				field(w, "CPU", orUnknown(out.CPUArch))
				field(w, "Binary", out.OS+"/"+out.Arch)
			})
		},
	}
}

type channelOutput struct {
	Vendor   browser.Vendor          `json:"vendor"`
	Label    string                  `json:"label"`
	Channels []browser.ChannelOption `json:"channels"`
}

type optionsOutput struct {
	Vendors   []channelOutput   `json:"vendors"`
	Platforms []platform.Option `json:"platforms"`
}

func (a *app) optionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "options",
		Short: "List vendors, channels and platforms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := optionsOutput{Platforms: platform.Options()}
			for _, v := range browser.Vendors() {
				out.Vendors = append(out.Vendors, channelOutput{
					Vendor:   v,
					Label:    v.Label(),
					Channels: browser.Channels(v),
				})
			}

			return a.print(out, func(w io.Writer) {
				for _, v := range out.Vendors {
					t := newTable("Channel", "Value")
					for _, c := range v.Channels {
						t.Row(c.Label, string(c.Value))
					}
					io.WriteString(w, titleStyle.Render(v.Label)+"\n")
					io.WriteString(w, t.Render()+"\n")
				}
				t := newTable("Platform", "Value")
				for _, p := range out.Platforms {
					t.Row(p.Label, string(p.Value))
				}
				io.WriteString(w, titleStyle.Render("Platforms")+"\n")
				io.WriteString(w, t.Render()+"\n")
			})
		},
	}
}

func orUnknown(s string) string {
	if s == "" {
		return mutedStyle.Render("unknown")
	}
	return s
}
