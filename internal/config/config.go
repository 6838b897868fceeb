// Package config holds the command-line configuration for the conversion
// pipeline.
package config

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"
	"time"
)

// BBox is a geographic bounding box filter. An unset box contains
// everything.
type BBox struct {
	MinLon, MinLat, MaxLon, MaxLat float64
	IsSet                          bool
}

// Contains checks if a point is within the bounding box
func (b *BBox) Contains(lat, lon float64) bool {
	if !b.IsSet {
		return true
	}
	return lon >= b.MinLon && lon <= b.MaxLon && lat >= b.MinLat && lat <= b.MaxLat
}

// ParseBBox parses a bbox string in format "minlon,minlat,maxlon,maxlat"
func ParseBBox(s string) (*BBox, error) {
	if s == "" {
		return &BBox{IsSet: false}, nil
	}

	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return nil, fmt.Errorf("bbox must have 4 values: minlon,minlat,maxlon,maxlat")
	}

	var coords [4]float64
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid bbox coordinate %q: %w", p, err)
		}
		coords[i] = v
	}

	bbox := &BBox{
		MinLon: coords[0],
		MinLat: coords[1],
		MaxLon: coords[2],
		MaxLat: coords[3],
		IsSet:  true,
	}

	if bbox.MinLon > bbox.MaxLon {
		return nil, fmt.Errorf("minlon (%f) must be <= maxlon (%f)", bbox.MinLon, bbox.MaxLon)
	}
	if bbox.MinLat > bbox.MaxLat {
		return nil, fmt.Errorf("minlat (%f) must be <= maxlat (%f)", bbox.MinLat, bbox.MaxLat)
	}

	return bbox, nil
}

// Config holds the global configuration for the conversion process
type Config struct {
	// Input settings
	InputFiles []string // GeoJSON or OSM PBF inputs
	SourceSRID int      // SRID of input coordinates (4326 or 3857)
	BBox       *BBox    // Geographic bounding box filter

	// Styling
	StyleScript string // Lua style script (takes precedence)
	StyleFile   string // Static style YAML
	IconDir     string // Directory icon sources resolve against
	IconDensity float64

	// View settings
	Resolution   float64 // Map units per pixel
	MaxLineWidth float64 // Outline width clamp
	AltitudeMode string  // Layer-level height reference hint

	// Output settings
	OutputFile string // Scene JSON output ("" or "-" = stdout)

	// Database settings (postgres input)
	DBHost     string
	DBPort     int
	DBName     string
	DBUser     string
	DBPassword string
	DBSchema   string
	DBTables   []string // Tables to read features from

	// Processing settings
	Workers int

	// Logging and metrics
	Verbose         bool
	LogFile         string        // Path to log file (empty = no file logging)
	MetricsInterval time.Duration // Interval for system metrics logging
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		SourceSRID:      4326,
		Resolution:      1,
		MaxLineWidth:    8,
		IconDensity:     1,
		OutputFile:      "-",
		DBHost:          "localhost",
		DBPort:          5432,
		DBName:          "osm",
		DBUser:          "postgres",
		DBSchema:        "public",
		Workers:         runtime.NumCPU(),
		MetricsInterval: 30 * time.Second,
	}
}

// ConnectionString returns a PostgreSQL connection string
func (c *Config) ConnectionString() string {
	connStr := fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s sslmode=disable",
		c.DBHost, c.DBPort, c.DBName, c.DBUser,
	)
	if c.DBPassword != "" {
		connStr += fmt.Sprintf(" password=%s", c.DBPassword)
	}
	return connStr
}

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if len(c.InputFiles) == 0 && len(c.DBTables) == 0 {
		return fmt.Errorf("at least one input file or database table is required")
	}
	if c.SourceSRID != 4326 && c.SourceSRID != 3857 {
		return fmt.Errorf("source SRID must be 4326 or 3857, got %d", c.SourceSRID)
	}
	if c.Resolution <= 0 {
		return fmt.Errorf("resolution must be positive")
	}
	if c.MaxLineWidth <= 0 {
		return fmt.Errorf("max line width must be positive")
	}
	if c.IconDensity <= 0 {
		return fmt.Errorf("icon density must be positive")
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1")
	}
	if c.StyleScript != "" && c.StyleFile != "" {
		return fmt.Errorf("style script and style file are mutually exclusive")
	}
	return nil
}
