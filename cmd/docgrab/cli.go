package main

import (
	"context"
	"io"
	"time"

	"github.com/fwojciec/docgrab"
	"github.com/fwojciec/docgrab/retrieve"
)

// Sizer reports the size of a remote resource without downloading it.
type Sizer interface {
	Size(ctx context.Context, url string) (int64, error)
}

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer

	// Preferences are the effective settings, with flag overrides applied.
	Preferences       *docgrab.Preferences
	PreferenceService docgrab.PreferenceService

	Fetcher   docgrab.Fetcher
	Extractor docgrab.ReferenceExtractor
	Sizer     Sizer
	Batch     *retrieve.Batch
	Notifier  docgrab.Notifier
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Dir       string        `short:"d" env:"DOCGRAB_DIR" default:"." help:"Directory to save files to"`
	Ext       string        `help:"File extension to look for (overrides the stored preference)"`
	Timeout   time.Duration `short:"t" default:"10s" help:"Fetch timeout per page"`
	RateLimit float64       `default:"2" help:"Maximum downloads per second per host"`
	NoBrowser bool          `help:"Scan pages over plain HTTP without starting a browser"`
	Verbose   bool          `short:"v" help:"Log fetches, transfers and retrievals"`

	Scan   ScanCmd   `cmd:"" help:"List document links found on pages"`
	Get    GetCmd    `cmd:"" help:"Download documents linked from a page"`
	Fetch  FetchCmd  `cmd:"" help:"Download documents by URL"`
	Config ConfigCmd `cmd:"" help:"Show or change preferences"`
}

// ScanCmd is the "scan" subcommand.
type ScanCmd struct {
	URLs        []string `arg:"" name:"url" help:"Page URLs to scan"`
	Sizes       bool     `short:"s" help:"Look up document sizes"`
	Concurrency int      `short:"c" default:"3" help:"Concurrent page limit"`
}

// GetCmd is the "get" subcommand.
type GetCmd struct {
	URL    string `arg:"" help:"Page URL to download documents from"`
	Select string `help:"Comma-separated 1-based indexes from scan output, e.g. 1,3"`
	Match  string `short:"m" help:"Only download documents whose name or URL matches this regex"`
}

// FetchCmd is the "fetch" subcommand.
type FetchCmd struct {
	URLs []string `arg:"" name:"url" help:"Document URLs to download"`
}

// ConfigCmd is the "config" subcommand.
type ConfigCmd struct {
	Get ConfigGetCmd `cmd:"" help:"Show stored preferences"`
	Set ConfigSetCmd `cmd:"" help:"Change a preference"`
}

// ConfigGetCmd is the "config get" subcommand.
type ConfigGetCmd struct{}

// ConfigSetCmd is the "config set" subcommand.
type ConfigSetCmd struct {
	Key   string `arg:"" help:"Preference key (show-notifications, extension)"`
	Value string `arg:"" help:"New value"`
}
