// Package client wires the configuration, the SQLite store, the catalogue and
// the analysis manager into one handle used by the command line and the server.
package client

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/oxygene76/univers-client/internal/types"
	"github.com/oxygene76/univers-client/pkg/analysis"
	"github.com/oxygene76/univers-client/pkg/astronomy/catalog"
	"github.com/oxygene76/univers-client/pkg/store"
	"github.com/oxygene76/univers-client/pkg/utils"
)

// ErrStoreDisabled is returned by operations that need the store when it is off.
var ErrStoreDisabled = errors.New("this needs the store (set store.enabled in the config)")

// UniversClient is the main handle on the relativity calculators.
type UniversClient struct {
	config   *utils.Config
	logger   *zap.Logger
	db       *store.DB
	catalog  *catalog.Catalog
	analyzer *analysis.Manager
}

// New opens the store when enabled and builds a catalogue holding the
// reference table plus the persisted custom bodies.
func New(config *utils.Config, logger *zap.Logger) (*UniversClient, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &UniversClient{config: config, logger: logger}

	var custom []catalog.Body
	if config.Store.Enabled {
		db, err := store.Open(config.Store.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open store: %w", err)
		}
		c.db = db
		if custom, err = db.LoadBodies(); err != nil {
			c.Close()
			return nil, fmt.Errorf("failed to load custom bodies: %w", err)
		}
	}

	cat, err := catalog.New(custom...)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to build catalogue: %w", err)
	}
	c.catalog = cat
	c.analyzer = analysis.NewManager(logger, cat, config.AnalysisOptions())

	logger.Debug("client ready",
		zap.String("lang", config.Display.Lang),
		zap.Bool("store", c.db != nil),
		zap.Int("bodies", cat.Len()),
		zap.Int("custom_bodies", len(custom)),
	)
	return c, nil
}

// Close releases the store.
func (c *UniversClient) Close() error {
	if c.db == nil {
		return nil
	}
	err := c.db.Close()
	c.db = nil
	return err
}

// Config returns the configuration the client was built from.
func (c *UniversClient) Config() *utils.Config {
	return c.config
}

// Analyzer returns the analysis manager.
func (c *UniversClient) Analyzer() *analysis.Manager {
	return c.analyzer
}

// Catalog returns the shared catalogue.
func (c *UniversClient) Catalog() *catalog.Catalog {
	return c.catalog
}

// Store returns the store, or nil when it is disabled.
func (c *UniversClient) Store() *store.DB {
	return c.db
}

// Reconfigure rebuilds the analysis manager for a new configuration. The
// catalogue and the store are kept.
func (c *UniversClient) Reconfigure(config *utils.Config) *analysis.Manager {
	c.config = config
	c.analyzer = analysis.NewManager(c.logger, c.catalog, config.AnalysisOptions())
	return c.analyzer
}

// Recorder returns the history recorder handed to the HTTP server, or nil
// when the store or server.record_history is off.
func (c *UniversClient) Recorder() analysis.Recorder {
	if c.db == nil || !c.config.Server.RecordHistory {
		return nil
	}
	return c.db
}

// Record stores a finished computation. Failures are logged, not returned.
func (c *UniversClient) Record(kind types.AnalysisType, params map[string]interface{}, results interface{}, start time.Time) {
	if c.db == nil {
		return
	}
	id, err := c.db.RecordHistory(analysis.NewResult(kind, params, results, start))
	if err != nil {
		c.logger.Warn("failed to record history", zap.String("kind", string(kind)), zap.Error(err))
		return
	}
	c.logger.Debug("history recorded", zap.String("id", id), zap.String("kind", string(kind)))
}

// AddBody registers a custom body in the catalogue and persists it.
func (c *UniversClient) AddBody(b catalog.Body) error {
	if c.db == nil {
		return ErrStoreDisabled
	}
	b.Custom = true
	if err := c.catalog.Add(b); err != nil {
		return err
	}
	if err := c.db.SaveBody(b); err != nil {
		_ = c.catalog.Remove(b.Name)
		return err
	}
	c.logger.Info("custom body added", zap.String("name", b.Name), zap.String("kind", string(b.Kind)))
	return nil
}

// RemoveBody deletes a custom body, looked up ignoring case and accents,
// and returns it.
func (c *UniversClient) RemoveBody(name string) (catalog.Body, error) {
	if c.db == nil {
		return catalog.Body{}, ErrStoreDisabled
	}
	b, err := c.catalog.Find(name)
	if err != nil {
		return catalog.Body{}, err
	}
	if err := c.catalog.Remove(b.Name); err != nil {
		return catalog.Body{}, err
	}
	if err := c.db.DeleteBody(b.Name); err != nil {
		return catalog.Body{}, err
	}
	c.logger.Info("custom body removed", zap.String("name", b.Name))
	return b, nil
}

// History returns the most recent computations.
func (c *UniversClient) History(limit int) ([]types.HistoryEntry, error) {
	if c.db == nil {
		return nil, ErrStoreDisabled
	}
	return c.db.ListHistory(limit)
}
