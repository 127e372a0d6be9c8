package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/orakul/orakul/internal/config"
	"github.com/orakul/orakul/pkg/buildinfo"
	"github.com/orakul/orakul/pkg/cache"
	"github.com/orakul/orakul/pkg/pipeline"
	"github.com/orakul/orakul/pkg/source"
)

// appName is used for directories and display.
const appName = "orakul"

// Log levels exported for main.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds state shared by all commands.
type CLI struct {
	Logger *log.Logger
	Config *config.Config

	configPath string
}

// New returns a CLI logging to w at level. The configuration is loaded
// before each command runs.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand returns the root command with every subcommand registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Orakul explores a system's architecture as layered diagrams",
		Long: `Orakul projects a system description (systems, modules, components) into
layered node-link diagrams. Lay a level out, render it, explore it in the
terminal, or serve it to a browser front end.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: "+config.Path()+")")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.visualizeCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.exploreCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg
	c.Logger.Debug("config loaded", "path", c.configPathOrDefault())
	return nil
}

func (c *CLI) configPathOrDefault() string {
	if c.configPath != "" {
		return c.configPath
	}
	return config.Path()
}

// newRunner creates a pipeline runner over the configured cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(cc, nil, c.Logger)
	r.TTL = c.Config.Cache.TTL.Duration
	return r, nil
}

// newCache opens the configured backend. A missing home directory
// disables the file cache instead of failing.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	cfg := c.Config.Cache
	if noCache || cfg.Backend == "none" {
		return cache.NewNullCache(), nil
	}
	if cfg.Backend == "redis" {
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{URL: cfg.RedisURL, Prefix: cfg.Prefix})
		if err != nil {
			return nil, err
		}
		return cache.Instrument(rc), nil
	}

	dir := cfg.Dir
	if dir == "" {
		var err error
		if dir, err = cacheDir(); err != nil {
			c.Logger.Warn("cache disabled", "err", err)
			return cache.NewNullCache(), nil
		}
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, err
	}
	return cache.Instrument(fc), nil
}

// cacheDir returns $XDG_CACHE_HOME/orakul, or ~/.cache/orakul.
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// viewFlags are the flags shared by commands that build a scene.
type viewFlags struct {
	level     string
	direction string
	database  string
	coll      string
	document  string
}

func (f *viewFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.level, "level", "l", "", "level: abstract, modules, components (default from config)")
	cmd.Flags().StringVarP(&f.direction, "direction", "d", "", "layout direction: TB, BT, LR, RL (default from config)")
	cmd.Flags().StringVar(&f.database, "mongo-db", "", "MongoDB database (mongodb:// sources)")
	cmd.Flags().StringVar(&f.coll, "mongo-collection", "", "MongoDB collection (mongodb:// sources)")
	cmd.Flags().StringVar(&f.document, "mongo-id", "", "MongoDB document _id (default: newest)")
}

// pipelineOptions merges config defaults and flags.
func (c *CLI) pipelineOptions(src string, f viewFlags) pipeline.Options {
	cfg := c.Config
	opts := pipeline.Options{
		Source:    src,
		Level:     firstNonEmpty(f.level, cfg.View.Level),
		Direction: firstNonEmpty(f.direction, cfg.View.Direction),
		Layout:    cfg.Layout,
		Formats:   append([]string(nil), cfg.Render.Formats...),
		Engine:    cfg.Render.Engine,
		Detailed:  cfg.Render.Detailed,
		Logger:    c.Logger,
		Mongo: source.MongoOptions{
			Database:   firstNonEmpty(f.database, cfg.Mongo.Database),
			Collection: firstNonEmpty(f.coll, cfg.Mongo.Collection),
			ID:         f.document,
			Timeout:    cfg.Mongo.Timeout.Duration,
		},
	}
	return opts
}

// parseFormats splits a comma-separated list; "" yields nil so the
// configured formats apply.
func parseFormats(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
