package main

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/1broseidon/winwatch/internal/journal"
	"github.com/1broseidon/winwatch/internal/mcp"
)

func printMCPUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: winwatch mcp <command>")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  serve    Start the MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'winwatch mcp <command> --help' for command-specific options.")
}

func (c *cli) runMCP(args []string) int {
	if len(args) == 0 {
		printMCPUsage(c.stderr)
		return 2
	}

	switch args[0] {
	case "serve":
		return c.runMCPServe(args[1:])
	case "help", "-h", "--help":
		printMCPUsage(c.stdout)
		return 0
	default:
		fmt.Fprintf(c.stderr, "Unknown mcp command: %s\n\n", args[0])
		printMCPUsage(c.stderr)
		return 2
	}
}

func (c *cli) runMCPServe(args []string) int {
	var common commonFlags
	fs := c.newFlagSet("mcp serve", "mcp serve [--config PATH]",
		"Start the MCP server on stdio. Designed to be invoked by MCP clients.\n\nExample:\n  claude mcp add winwatch -- winwatch mcp serve", &common)
	if code := parse(fs, args); code >= 0 {
		return code
	}

	s, err := c.open(common)
	if err != nil {
		return c.fail(err)
	}
	defer s.Close()

	var j *journal.Journal
	if s.cfg.Journal.Enabled {
		path, err := journalPath(s.cfg)
		if err != nil {
			return c.fail(err)
		}
		j, err = journal.Open(path, s.log.Named("journal"))
		if err != nil {
			return c.fail(fmt.Errorf("failed to open journal: %w", err))
		}
		defer j.Close()
		sub := s.mgr.OnWindowActivated(j.Listener(c.ctx))
		defer sub.Cancel()
	}

	server := mcp.NewServer(s.mgr, j, s.log.Named("mcp"))
	if err := server.Run(c.ctx); err != nil && c.ctx.Err() == nil {
		s.log.Error("mcp server error", zap.Error(err))
		return 1
	}
	return 0
}
