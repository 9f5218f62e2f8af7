package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/ZebulonRouseFrantzich/getbrowser/internal/fetchcache"
	"github.com/ZebulonRouseFrantzich/getbrowser/internal/service"
)

var (
	// Colors
	primaryColor = lipgloss.Color("#7C3AED") // purple
	okColor      = lipgloss.Color("#10B981") // green
	mutedColor   = lipgloss.Color("#6B7280") // gray
	dangerColor  = lipgloss.Color("#EF4444") // red

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	labelStyle = lipgloss.NewStyle().
			Bold(true).
			Width(10)

	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	okStyle = lipgloss.NewStyle().
		Foreground(okColor)

	errorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(dangerColor)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().
			Padding(0, 1)
)

// newTable returns a table in the shared style.
func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(mutedStyle).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
}

// field writes one "label value" line.
func field(w io.Writer, label, value string) {
	fmt.Fprintf(w, "%s %s\n", labelStyle.Render(label), value)
}

func renderReleases(w io.Writer, res *service.ReleasesResult) {
	plat := res.Platform.Label()
	if res.Detected {
		plat += mutedStyle.Render(" (detected)")
	}
	fmt.Fprintf(w, "%s %s %s\n",
		titleStyle.Render(res.Vendor.Label()), string(res.Channel), mutedStyle.Render("on")+" "+plat)

	if len(res.Releases) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No releases found."))
		return
	}

	t := newTable("Version", "Date", "Download")
	for _, item := range res.Releases {
		t.Row(item.Version.Label, item.Version.Date.Format("2006-01-02"), item.URL)
	}
	fmt.Fprintln(w, t.Render())
}

func renderCacheEntries(w io.Writer, status *service.CacheStatus, now time.Time) {
	state := mutedStyle.Render("disabled (production mode)")
	if status.Enabled {
		state = okStyle.Render("enabled")
	}
	field(w, "Caching", state)
	field(w, "Backend", status.Backend)

	if len(status.Entries) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("No cached responses."))
		return
	}

	t := newTable("URL", "Size", "Expires")
	for _, e := range status.Entries {
		t.Row(e.URL, formatSize(e.Size), formatExpiry(e, now))
	}
	fmt.Fprintln(w, t.Render())
}

func formatExpiry(e fetchcache.Entry, now time.Time) string {
	if e.ExpiresAt.IsZero() {
		return "unknown"
	}
	if !e.Valid(now) {
		return "expired"
	}
	return "in " + e.ExpiresAt.Sub(now).Round(time.Minute).String()
}

func formatSize(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}

// indent prefixes every non-empty line of s.
func indent(s, prefix string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = prefix + l
		}
	}
	return strings.Join(lines, "\n") + "\n"
}
