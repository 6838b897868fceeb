// Package pgsrc reads features out of PostGIS tables. Geometries come back
// as EWKB and attributes as a JSONB column, matching the table shape the
// importer writes.
package pgsrc

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/wegman-software/vec2globe-go/feature"
	"github.com/wegman-software/vec2globe-go/internal/wkb"
)

// Query describes the table slice to read features from. Column and table
// names are interpolated into SQL; they must come from configuration, not
// user input.
type Query struct {
	Table      string
	IDColumn   string // default "osm_id"
	GeomColumn string // default "geom"
	TagsColumn string // default "tags"
	Where      string // optional filter, without the WHERE keyword
	Limit      int    // 0 means no limit
}

func (q Query) withDefaults() Query {
	if q.IDColumn == "" {
		q.IDColumn = "osm_id"
	}
	if q.GeomColumn == "" {
		q.GeomColumn = "geom"
	}
	if q.TagsColumn == "" {
		q.TagsColumn = "tags"
	}
	return q
}

func (q Query) sql() string {
	sql := fmt.Sprintf("SELECT %s::text, ST_AsEWKB(%s), %s FROM %s",
		q.IDColumn, q.GeomColumn, q.TagsColumn, q.Table)
	if q.Where != "" {
		sql += " WHERE " + q.Where
	}
	if q.Limit > 0 {
		sql += fmt.Sprintf(" LIMIT %d", q.Limit)
	}
	return sql
}

// Provider reads feature sources from a PostGIS database.
type Provider struct {
	pool *pgxpool.Pool
	log  *zap.Logger
}

// New connects a provider to the database. MaxConns 0 keeps the pool
// default.
func New(ctx context.Context, connString string, maxConns int, log *zap.Logger) (*Provider, error) {
	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection string: %w", err)
	}
	if maxConns > 0 {
		poolConfig.MaxConns = int32(maxConns)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Provider{pool: pool, log: log}, nil
}

// NewWithPool wraps an existing pool. The caller keeps pool ownership.
func NewWithPool(pool *pgxpool.Pool, log *zap.Logger) *Provider {
	if log == nil {
		log = zap.NewNop()
	}
	return &Provider{pool: pool, log: log}
}

// Close releases the connection pool.
func (p *Provider) Close() {
	p.pool.Close()
}

// Load reads the queried rows into a source and reports the SRID stamped on
// the geometries. Rows with NULL geometry are skipped; mixed SRIDs in one
// table are an error.
func (p *Provider) Load(ctx context.Context, q Query) (*feature.Source, int, error) {
	q = q.withDefaults()
	if q.Table == "" {
		return nil, 0, fmt.Errorf("query has no table")
	}

	rows, err := p.pool.Query(ctx, q.sql())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query %s: %w", q.Table, err)
	}
	defer rows.Close()

	src := feature.NewSource()
	srid := 0
	var skipped int

	for rows.Next() {
		var id string
		var geomEWKB []byte
		var tags map[string]any
		if err := rows.Scan(&id, &geomEWKB, &tags); err != nil {
			return nil, 0, fmt.Errorf("failed to scan row: %w", err)
		}

		if len(geomEWKB) == 0 {
			skipped++
			continue
		}

		g, rowSRID, err := wkb.Decode(geomEWKB)
		if err != nil {
			return nil, 0, fmt.Errorf("row %s: %w", id, err)
		}
		if srid == 0 {
			srid = rowSRID
		} else if rowSRID != 0 && rowSRID != srid {
			return nil, 0, fmt.Errorf("mixed SRIDs in %s: %d and %d", q.Table, srid, rowSRID)
		}

		src.Add(&feature.Feature{ID: id, Geometry: g, Attributes: tags})
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read rows: %w", err)
	}

	if skipped > 0 {
		p.log.Debug("Skipped rows with NULL geometry", zap.String("table", q.Table), zap.Int("rows", skipped))
	}
	p.log.Debug("Table loaded", zap.String("table", q.Table), zap.Int("features", src.Len()), zap.Int("srid", srid))
	return src, srid, nil
}
