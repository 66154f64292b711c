package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/ose-migrate/internal/core/domain"
	"github.com/custodia-labs/ose-migrate/internal/core/ports/driven"
	"github.com/custodia-labs/ose-migrate/internal/logger"
)

// Ensure Catalog implements the interface.
var _ driven.AssetCatalog = (*Catalog)(nil)

const selectAssets = `
	SELECT asset_id, name, uri, start_date, end_date, duration, mimetype,
	       is_enabled, is_processing, nocache, play_order
	FROM assets
	ORDER BY play_order`

// timestampLayouts are the formats timestamps are stored in by the player.
var timestampLayouts = []string{
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05.999999999-07:00",
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02",
}

// Catalog reads assets from the player's SQLite database.
type Catalog struct {
	path string
	now  func() time.Time
}

// CatalogOption configures optional Catalog behaviour.
type CatalogOption func(*Catalog)

// WithClock overrides the time used to derive each asset's active flag.
func WithClock(now func() time.Time) CatalogOption {
	return func(c *Catalog) {
		c.now = now
	}
}

// NewCatalog creates a catalog reader for the database at path.
func NewCatalog(path string, opts ...CatalogOption) *Catalog {
	c := &Catalog{path: path, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Path returns the database file path.
func (c *Catalog) Path() string {
	return c.path
}

// readOnlyDSN builds a SQLite URI that opens path without write access.
func readOnlyDSN(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving database path: %w", err)
	}
	u := url.URL{
		Scheme:   "file",
		Path:     filepath.ToSlash(abs),
		RawQuery: "mode=ro&_pragma=busy_timeout(5000)",
	}
	return u.String(), nil
}

// ListAssets reads every asset ordered by play order. The connection is
// opened and closed within the call.
func (c *Catalog) ListAssets(ctx context.Context) (assets []domain.Asset, err error) {
	if _, err := os.Stat(c.path); err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}

	dsn, err := readOnlyDSN(c.path)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing database: %w", cerr)
		}
	}()

	rows, err := db.QueryContext(ctx, selectAssets)
	if err != nil {
		return nil, fmt.Errorf("querying assets: %w", err)
	}
	defer rows.Close()

	now := c.now().UTC()
	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			return nil, err
		}
		asset.Active = asset.IsActiveAt(now)
		assets = append(assets, asset)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating assets: %w", err)
	}

	logger.Debug("Read %d assets from %s", len(assets), c.path)
	return assets, nil
}

func scanAsset(rows *sql.Rows) (domain.Asset, error) {
	var (
		asset               domain.Asset
		name, uri, mimetype sql.NullString
		startRaw, endRaw    any
		durationRaw         any
		enabled, processing sql.NullInt64
		noCache, playOrder  sql.NullInt64
	)

	err := rows.Scan(
		&asset.ID, &name, &uri, &startRaw, &endRaw, &durationRaw, &mimetype,
		&enabled, &processing, &noCache, &playOrder,
	)
	if err != nil {
		return domain.Asset{}, fmt.Errorf("scanning asset: %w", err)
	}

	asset.Name = name.String
	asset.URI = uri.String
	asset.MimeType = mimetype.String
	asset.Duration = formatValue(durationRaw)
	asset.IsEnabled = enabled.Int64 != 0
	asset.IsProcessing = processing.Int64 != 0
	asset.NoCache = noCache.Int64 != 0
	asset.PlayOrder = int(playOrder.Int64)

	if asset.StartDate, err = parseTimestamp(startRaw); err != nil {
		return domain.Asset{}, fmt.Errorf("asset %s start_date: %w", asset.ID, err)
	}
	if asset.EndDate, err = parseTimestamp(endRaw); err != nil {
		return domain.Asset{}, fmt.Errorf("asset %s end_date: %w", asset.ID, err)
	}
	return asset, nil
}

// parseTimestamp converts a stored timestamp to UTC. NULL and empty values yield nil.
func parseTimestamp(v any) (*time.Time, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil
	case time.Time:
		u := t.UTC()
		return &u, nil
	case int64:
		u := time.Unix(t, 0).UTC()
		return &u, nil
	case []byte:
		return parseTimestampString(string(t))
	case string:
		return parseTimestampString(t)
	default:
		return nil, fmt.Errorf("unsupported timestamp type %T", v)
	}
}

func parseTimestampString(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			u := t.UTC()
			return &u, nil
		}
	}
	return nil, errors.New("unrecognised timestamp " + strconv.Quote(s))
}

func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case []byte:
		return string(t)
	case string:
		return t
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}
