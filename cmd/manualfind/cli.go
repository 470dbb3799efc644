package main

import (
	"context"
	"io"
	"time"

	manualagent "github.com/robeeeeeet/manual-agent-sub002"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx        context.Context
	Stdout     io.Writer
	Stderr     io.Writer
	Discoverer manualagent.Discoverer
	Domains    manualagent.DomainService
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Find    FindCmd    `cmd:"" help:"Locate and verify the manual PDF for an appliance"`
	Domains DomainsCmd `cmd:"" help:"List learned domains for a manufacturer"`
}

// FindCmd is the "find" subcommand.
type FindCmd struct {
	Manufacturer string        `arg:"" help:"Manufacturer name, e.g. 日立"`
	Model        string        `arg:"" help:"Model number, e.g. MRO-S7D"`
	Category     string        `short:"c" help:"Appliance category, e.g. microwave"`
	Domain       []string      `short:"d" help:"Known manufacturer domain (repeatable)"`
	Timeout      time.Duration `default:"90s" help:"Discovery time budget"`
	Render       bool          `help:"Fetch pages with headless Chrome (JavaScript-rendered portals)"`
	Verbose      bool          `short:"v" help:"Log discovery progress to stderr"`
}

// DomainsCmd is the "domains" subcommand.
type DomainsCmd struct {
	Manufacturer string `arg:"" help:"Manufacturer name"`
}
