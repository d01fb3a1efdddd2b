package config

import "time"

// Base application details
const AppName = "blox"
const DefaultConfigFileName = "config.toml"
const DefaultLogFileName = "blox.log"
const DefaultDatabaseFileName = "blox.db"
const DefaultPageID = "home"

// UI Layout
const StatusBarHeight = 1

// DefaultTheme names the built-in canvas theme.
const DefaultTheme = "Dark"

// Status Bar
const MessageTimeout = 4 * time.Second

// Autosave waits for this much idle time after the last document change.
const DefaultAutosaveDelay = 2 * time.Second

const SystemClipboard = true

// Interaction defaults, mirrored from the core packages.
const (
	DefaultMaxEntries         = 100
	DefaultCoalesceWindow     = time.Second
	DefaultThrottleInterval   = 200 * time.Millisecond
	DefaultIndicatorThickness = 1
	DefaultHoverThrottle      = 20 * time.Millisecond
)
