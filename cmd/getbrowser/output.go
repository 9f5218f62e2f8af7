package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/ZebulonRouseFrantzich/getbrowser/internal/browser"
	"github.com/ZebulonRouseFrantzich/getbrowser/internal/config"
	"github.com/ZebulonRouseFrantzich/getbrowser/internal/fetchcache"
)

// result is the envelope of every --json response.
type result struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
	Kind    string      `json:"kind,omitempty"`
}

// print writes data as JSON in --json mode and calls text otherwise.
func (a *app) print(data interface{}, text func(w io.Writer)) error {
	if a.flags.json {
		out, err := json.MarshalIndent(result{Success: true, Data: data}, "", "  ")
		if err != nil {
			return fmt.Errorf("encode output: %w", err)
		}
		_, err = fmt.Fprintln(a.stdout, string(out))
		return err
	}
	text(a.stdout)
	return nil
}

// printError reports err in the current output mode.
func (a *app) printError(err error) {
	kind, msg := describeError(err, a.flags.verbose)
	if a.flags.json {
		out, _ := json.MarshalIndent(result{Success: false, Error: msg, Kind: kind}, "", "  ")
		fmt.Fprintln(a.stdout, string(out))
		return
	}
	fmt.Fprintln(a.stderr, errorStyle.Render("Error:")+" "+msg)
}

// Error kinds reported in --json mode.
const (
	kindUnsupported = "unsupported"
	kindSelection   = "invalid_selection"
	kindFeed        = "feed"
	kindConfig      = "config"
	kindOther       = "error"
)

// describeError classifies err for the user.
func describeError(err error, verbose bool) (kind, msg string) {
	var (
		upe *browser.UnsupportedPlatformError
		uce *browser.UnknownChannelError
		fe  *fetchcache.FetchError
		pe  *fetchcache.ParseError
		cpe *config.ParseError
		cve *config.ValidationError
	)

	switch {
	case errors.As(err, &upe):
		return kindUnsupported, fmt.Sprintf("not available for this platform/channel combination: %v", upe)
	case errors.As(err, &uce):
		return kindSelection, uce.Error()
	case errors.As(err, &fe):
		return kindFeed, fmt.Sprintf("could not load release data: %v", fe)
	case errors.As(err, &pe):
		return kindFeed, fmt.Sprintf("could not load release data: %v", pe)
	case errors.As(err, &cpe):
		return kindConfig, config.FormatError(cpe, verbose)
	case errors.As(err, &cve):
		return kindConfig, cve.Error()
	default:
		return kindOther, err.Error()
	}
}
