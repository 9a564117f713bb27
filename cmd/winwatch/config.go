package main

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/1broseidon/winwatch/internal/config"
)

func printConfigUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  winwatch config validate [--config PATH]")
	fmt.Fprintln(w, "  winwatch config print [--config PATH] [--defaults]")
	fmt.Fprintln(w, "  winwatch config explain [--config PATH] <yaml.path>")
	fmt.Fprintln(w, "  winwatch config paths")
}

func (c *cli) runConfig(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		printConfigUsage(c.stderr)
		return 2
	}

	switch args[0] {
	case "validate":
		var common commonFlags
		fs := c.newFlagSet("config validate", "config validate [--config PATH]", "Load and validate configuration.", &common)
		if code := parse(fs, args[1:]); code >= 0 {
			return code
		}
		res, err := loadConfig(common.configPath)
		if err != nil {
			return c.fail(err)
		}
		if res.File == "" {
			fmt.Fprintln(c.stdout, "config: ok (defaults, no file)")
			return 0
		}
		fmt.Fprintf(c.stdout, "config: ok (%s)\n", res.File)
		return 0

	case "print":
		var common commonFlags
		fs := c.newFlagSet("config print", "config print [--config PATH] [--defaults]", "Print the effective configuration as YAML.", &common)
		printDefaults := fs.Bool("defaults", false, "Print built-in defaults (no files or environment)")
		if code := parse(fs, args[1:]); code >= 0 {
			return code
		}

		cfg := config.DefaultConfig()
		if !*printDefaults {
			res, err := loadConfig(common.configPath)
			if err != nil {
				return c.fail(err)
			}
			cfg = res.Config
		}
		data, err := cfg.YAML()
		if err != nil {
			return c.fail(err)
		}
		fmt.Fprint(c.stdout, string(data))
		return 0

	case "explain":
		var common commonFlags
		fs := c.newFlagSet("config explain", "config explain [--config PATH] <yaml.path>", "Show a config value and where it was set.", &common)
		if code := parse(fs, args[1:]); code >= 0 {
			return code
		}
		if fs.NArg() < 1 {
			fmt.Fprintln(c.stderr, "explain requires <yaml.path>")
			return 2
		}
		queryPath := fs.Arg(0)

		res, err := loadConfig(common.configPath)
		if err != nil {
			return c.fail(err)
		}
		value, src, err := config.Explain(res, queryPath)
		if err != nil {
			return c.fail(err)
		}
		out, err := yaml.Marshal(value)
		if err != nil {
			return c.fail(err)
		}

		fmt.Fprintf(c.stdout, "path: %s\n", queryPath)
		fmt.Fprintf(c.stdout, "source: %s\n", src)
		fmt.Fprintf(c.stdout, "value: %s", string(out))
		return 0

	case "paths":
		for _, p := range config.Paths {
			fmt.Fprintln(c.stdout, p)
		}
		return 0

	default:
		fmt.Fprintf(c.stderr, "Unknown config command: %s\n\n", args[0])
		printConfigUsage(c.stderr)
		return 2
	}
}
