package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/oxygene76/univers-client/pkg/api"
	"github.com/oxygene76/univers-client/pkg/client"
	"github.com/oxygene76/univers-client/pkg/utils"
)

func (c *cli) serveCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the calculators as a JSON HTTP API",
		Long: `Serve the calculators under /api/v1 until interrupted.

Edits to the config file are picked up without a restart: the language,
experiment defaults, solver caps and CORS origins are reloaded. Changing
the address or the rate limit needs a restart.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				c.config.Server.Addr = addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return c.serve(ctx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}

func (c *cli) serve(ctx context.Context) error {
	recorder := c.client.Recorder()

	cfg := api.Config{
		Addr:           c.config.Server.Addr,
		CORSOrigins:    c.config.Server.CORSOrigins,
		SolveRate:      c.config.Server.SolveRate,
		SolveWindow:    c.config.Server.SolveWindow,
		TrustedProxies: c.config.Server.TrustedProxies,
	}
	// history stays readable with record_history off
	if db := c.client.Store(); db != nil {
		cfg.History = db
	}
	server := api.NewServer(cfg, c.manager, recorder, c.logger)

	g, ctx := errgroup.WithContext(ctx)

	reloads := make(chan *utils.Config, 1)
	if path := c.viper.ConfigFileUsed(); path != "" && fileExists(path) {
		// A single writer: a pending reload is replaced so the newest config wins.
		utils.WatchConfig(c.viper, c.logger, func(config *utils.Config) {
			select {
			case <-reloads:
				c.logger.Debug("superseding pending config reload")
			default:
			}
			select {
			case reloads <- config:
			default:
			}
		})
	}

	// c.config belongs to the reload loop from here on
	c.logger.Info("serving",
		zap.String("addr", cfg.Addr),
		zap.Strings("cors_origins", cfg.CORSOrigins),
		zap.Strings("trusted_proxies", cfg.TrustedProxies),
		zap.Bool("history", recorder != nil),
	)
	g.Go(func() error {
		return server.Run(ctx)
	})
	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case config := <-reloads:
				c.applyReload(server, config)
			}
		}
	})

	if err := g.Wait(); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// applyReload swaps in a manager built from the new config, keeping the
// catalogue and its custom bodies.
func (c *cli) applyReload(server *api.Server, config *utils.Config) {
	if config.Server.Addr != c.config.Server.Addr || config.Server.SolveRate != c.config.Server.SolveRate {
		c.logger.Warn("listen address and rate limit changes apply after a restart")
	}
	c.manager = c.client.Reconfigure(config)
	server.SetManager(c.manager)
	server.SetCORSOrigins(config.Server.CORSOrigins)
	c.config = config
}

func (c *cli) historyCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Recent computations recorded in the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := c.client.History(limit)
			if err != nil {
				return err
			}

			p := c.printer(cmd.OutOrStdout())
			if p.json {
				return p.encode(entries)
			}
			if len(entries) == 0 {
				fmt.Fprintln(p.w, p.t("Aucun calcul enregistré.", "No recorded computation."))
				return nil
			}
			lines := make([][]string, len(entries))
			for i, e := range entries {
				lines[i] = []string{
					e.ID,
					string(e.Kind),
					e.CreatedAt.Local().Format(time.DateTime),
					truncate(string(e.Input), 60),
				}
			}
			p.table([]string{"ID", p.t("Type", "Kind"), p.t("Date", "Date"), p.t("Entrée", "Input")}, lines)
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "number of entries")
	cmd.AddCommand(c.historyShowCmd(), c.historyClearCmd())
	return cmd
}

func (c *cli) historyShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print one recorded computation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db := c.client.Store()
			if db == nil {
				return client.ErrStoreDisabled
			}
			entry, err := db.GetHistory(args[0])
			if err != nil {
				return err
			}
			return c.printer(cmd.OutOrStdout()).encode(entry)
		},
	}
}

func (c *cli) historyClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete every recorded computation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db := c.client.Store()
			if db == nil {
				return client.ErrStoreDisabled
			}
			n, err := db.ClearHistory()
			if err != nil {
				return err
			}
			p := c.printer(cmd.OutOrStdout())
			fmt.Fprintf(p.w, "%s %s\n", strconv.FormatInt(n, 10), p.t("entrées supprimées", "entries deleted"))
			return nil
		},
	}
}

func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	if r := []rune(s); len(r) > n {
		return string(r[:n-1]) + "…"
	}
	return s
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
