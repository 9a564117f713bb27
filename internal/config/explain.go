package config

import (
	"fmt"
)

// Paths lists every key Explain understands, in display order.
var Paths = []string{
	"display",
	"xauthority",
	"poll_interval",
	"log.level",
	"log.format",
	"journal.enabled",
	"journal.path",
	"capture.format",
}

// Explain returns the effective value at path and where it came from.
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}
	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}
	return value, Source{Kind: SourceDefault, Name: "defaults"}, nil
}

func lookupValue(cfg *Config, path string) (any, error) {
	switch path {
	case "display":
		return cfg.Display, nil
	case "xauthority":
		return cfg.XAuthority, nil
	case "poll_interval":
		return cfg.PollInterval, nil
	case "log.level":
		return cfg.Log.Level, nil
	case "log.format":
		return cfg.Log.Format, nil
	case "journal.enabled":
		return cfg.Journal.Enabled, nil
	case "journal.path":
		return cfg.Journal.Path, nil
	case "capture.format":
		return cfg.Capture.Format, nil
	}
	return nil, fmt.Errorf("unknown config path %q", path)
}

// String formats a source for `config explain` output.
func (s Source) String() string {
	switch s.Kind {
	case SourceFile:
		return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Column)
	case SourceEnv:
		return "$" + s.Name
	default:
		return string(s.Kind)
	}
}
