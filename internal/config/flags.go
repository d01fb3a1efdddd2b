package config

import (
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/bethropolis/blox/internal/logger"
)

// Flags holds values parsed from command-line flags.
type Flags struct {
	set *flag.FlagSet

	ConfigFilePath  *string
	Version         *bool
	LogLevel        *string
	LogFilePath     *string
	EnableTags      *string
	DisableTags     *string
	EnablePkgs      *string
	DisablePkgs     *string
	EnableFiles     *string
	DisableFiles    *string
	SystemClipboard *bool
	DatabasePath    *string
	PageID          *string
	Theme           *string
	CoalesceWindow  *time.Duration
	DragThrottle    *time.Duration
}

// DefineFlags registers the flags on fs.
func (f *Flags) DefineFlags(fs *flag.FlagSet) {
	f.set = fs
	f.ConfigFilePath = fs.String("config", "", fmt.Sprintf("Path to TOML configuration file (default ~/.config/%s/%s)", AppName, DefaultConfigFileName))
	f.Version = fs.Bool("version", false, "Show version information and exit")
	f.LogLevel = fs.String("loglevel", "", "Log level (debug, info, warn, error) - Overrides config file")
	f.LogFilePath = fs.String("logfile", "", "Path to write log file (use '-' for stderr) - Overrides config file")
	f.EnableTags = fs.String("log-tags", "", "Comma-separated list of tags to enable - Overrides config file")
	f.DisableTags = fs.String("log-disable-tags", "", "Comma-separated list of tags to disable - Overrides config file")
	f.EnablePkgs = fs.String("log-packages", "", "Comma-separated list of packages to enable - Overrides config file")
	f.DisablePkgs = fs.String("log-disable-packages", "", "Comma-separated list of packages to disable - Overrides config file")
	f.EnableFiles = fs.String("log-files", "", "Comma-separated list of files to enable - Overrides config file")
	f.DisableFiles = fs.String("log-disable-files", "", "Comma-separated list of files to disable - Overrides config file")
	f.SystemClipboard = fs.Bool("system-clipboard", false, "Use system clipboard instead of internal clipboard")
	f.DatabasePath = fs.String("db", "", "Path to the SQLite page database - Overrides config file")
	f.PageID = fs.String("page", "", "Page to open - Overrides config file")
	f.Theme = fs.String("theme", "", "Canvas theme name - Overrides config file")
	f.CoalesceWindow = fs.Duration("coalesce", 0, "History coalescing window, negative disables - Overrides config file")
	f.DragThrottle = fs.Duration("drag-throttle", -1, "Drag pointer throttle interval - Overrides config file")
}

// ParseFlags parses args with a fresh flag set and returns the remaining arguments.
func (f *Flags) ParseFlags(name string, args []string) ([]string, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	f.DefineFlags(fs)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return fs.Args(), nil
}

// ApplyOverrides updates cfg with the flags that were explicitly set.
func (f *Flags) ApplyOverrides(cfg *Config) {
	if f.set == nil {
		return
	}
	f.set.Visit(func(fl *flag.Flag) {
		logger.DebugTagf("config", "Applying flag override: %s", fl.Name)
		switch fl.Name {
		case "loglevel":
			if *f.LogLevel != "" {
				cfg.Logger.LogLevel = *f.LogLevel
			}
		case "logfile":
			cfg.Logger.LogFilePath = *f.LogFilePath
		case "system-clipboard":
			cfg.Editor.SystemClipboard = *f.SystemClipboard
		case "db":
			if *f.DatabasePath != "" {
				cfg.Editor.DatabasePath = *f.DatabasePath
			}
		case "page":
			if *f.PageID != "" {
				cfg.Editor.PageID = *f.PageID
			}
		case "theme":
			if *f.Theme != "" {
				cfg.Canvas.Theme = *f.Theme
			}
		case "coalesce":
			if *f.CoalesceWindow != 0 {
				cfg.History.CoalesceWindow = Duration{*f.CoalesceWindow}
			}
		case "drag-throttle":
			if *f.DragThrottle >= 0 {
				cfg.DnD.ThrottleInterval = Duration{*f.DragThrottle}
			}
		case "log-tags":
			cfg.Logger.EnabledTags = splitCommaList(*f.EnableTags)
		case "log-disable-tags":
			cfg.Logger.DisabledTags = splitCommaList(*f.DisableTags)
		case "log-packages":
			cfg.Logger.EnabledPackages = splitCommaList(*f.EnablePkgs)
		case "log-disable-packages":
			cfg.Logger.DisabledPackages = splitCommaList(*f.DisablePkgs)
		case "log-files":
			cfg.Logger.EnabledFiles = splitCommaList(*f.EnableFiles)
		case "log-disable-files":
			cfg.Logger.DisabledFiles = splitCommaList(*f.DisableFiles)
		}
	})
}

func splitCommaList(list string) []string {
	if list == "" {
		return nil
	}
	items := strings.Split(list, ",")
	result := make([]string, 0, len(items))
	for _, item := range items {
		trimmed := strings.TrimSpace(item)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
