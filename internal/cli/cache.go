package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/waterfall/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the chart cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached steps, layouts and artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			location, err := c.cacheLocation()
			if err != nil {
				return err
			}
			count, err := c.clearCache(cmd.Context())
			if err != nil {
				return err
			}
			c.status().success("Cleared %d cached entries", count)
			c.status().detail("Location: %s", location)
			return nil
		},
	}
}

// clearCache empties the configured cache backend.
func (c *CLI) clearCache(ctx context.Context) (int, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return 0, err
	}
	ch, err := newCache(ctx, cfg.Cache.URL, false)
	if err != nil {
		return 0, err
	}
	defer ch.Close()

	clearer, ok := ch.(cache.Clearer)
	if !ok {
		return 0, fmt.Errorf("cache backend %T cannot be cleared", ch)
	}
	return clearer.Clear(ctx)
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache location",
		RunE: func(cmd *cobra.Command, args []string) error {
			location, err := c.cacheLocation()
			if err != nil {
				return err
			}
			fmt.Fprintln(c.Out, location)
			return nil
		},
	}
}

// cacheLocation returns the configured cache URL, or the cache directory
// when the default file cache is in use.
func (c *CLI) cacheLocation() (string, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return "", err
	}
	if cfg.Cache.URL != "" {
		return cfg.Cache.URL, nil
	}
	dir, err := cacheDir()
	if err != nil {
		return "", fmt.Errorf("get cache dir: %w", err)
	}
	return dir, nil
}
