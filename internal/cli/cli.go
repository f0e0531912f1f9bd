// Package cli implements the seqline command-line interface.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/seqline/pkg/buildinfo"
	"github.com/matzehuels/seqline/pkg/store"
	"github.com/matzehuels/seqline/pkg/theme"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "seqline"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Seqline lays out and edits sequence diagrams",
		Long:         `Seqline is a layout engine for sequence diagrams: lifelines, connecting nodes, and activity processes. It computes slot-based layouts, serves them over HTTP, and provides an interactive terminal editor with drag support.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.editCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Store Factory
// =============================================================================

// storeFlags holds backend selection shared by serve.
type storeFlags struct {
	backend   string
	dir       string
	redisAddr string
	mongoURI  string
}

func (f *storeFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.backend, "store", "file", "document store backend: file, memory, redis, mongo")
	cmd.Flags().StringVar(&f.dir, "store-dir", "", "directory for the file store (default: ~/.config/seqline/documents)")
	cmd.Flags().StringVar(&f.redisAddr, "redis-addr", "localhost:6379", "redis address for the redis store")
	cmd.Flags().StringVar(&f.mongoURI, "mongo-uri", "mongodb://localhost:27017", "connection string for the mongo store")
}

// newStore builds the selected document store backend.
func (c *CLI) newStore(cmd *cobra.Command, f *storeFlags) (store.Store, error) {
	ctx := cmd.Context()
	switch f.backend {
	case "memory":
		return store.NewMemory(), nil
	case "file":
		return store.NewFile(f.dir)
	case "redis":
		return store.NewRedis(ctx, store.RedisConfig{Addr: f.redisAddr})
	case "mongo":
		return store.NewMongo(ctx, store.MongoConfig{URI: f.mongoURI})
	default:
		return nil, fmt.Errorf("unknown store backend %q", f.backend)
	}
}

// =============================================================================
// Theme Loading
// =============================================================================

// loadTheme returns the default theme or the overlay from --theme.
func loadTheme(path string) (*theme.Theme, error) {
	if path == "" {
		return theme.Default(), nil
	}
	return theme.LoadFile(path)
}

// =============================================================================
// Paths
// =============================================================================

// configDir returns the config directory using XDG standard (~/.config/seqline/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}
