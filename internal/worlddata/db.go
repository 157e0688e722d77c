// Package worlddata loads the static world dataset — region roster, ocean
// currents, market roster, base prices, and nation tables — from a SQLite
// database produced by the world-authoring toolchain.
package worlddata

import (
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/paulmach/orb"
	_ "modernc.org/sqlite"

	"github.com/kestrelgames/tradewinds/internal/trade"
	"github.com/kestrelgames/tradewinds/internal/world"
)

// DB wraps a read-only SQLite connection to the world dataset.
type DB struct {
	conn *sqlx.DB
}

// Open opens the world database at the given path.
func Open(path string) (*DB, error) {
	conn, err := sqlx.Open("sqlite", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open world db: %w", err)
	}
	return &DB{conn: conn}, nil
}

// OpenMemory opens an in-memory world database and creates the schema,
// for tests and dataset authoring.
func OpenMemory() (*DB, error) {
	conn, err := sqlx.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open world db: %w", err)
	}
	db := &DB{conn: conn}
	if err := db.Migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Migrate creates the world dataset schema.
func (db *DB) Migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS regions (
		id INTEGER PRIMARY KEY,
		q INTEGER NOT NULL,
		r INTEGER NOT NULL,
		lat REAL,
		lng REAL,
		terrain INTEGER NOT NULL,
		tier INTEGER NOT NULL,
		named INTEGER NOT NULL,
		name TEXT,
		population INTEGER NOT NULL,
		development REAL NOT NULL,
		production_json TEXT NOT NULL,
		owner_id INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS ocean_currents (
		name TEXT PRIMARY KEY,
		min_lng REAL NOT NULL,
		min_lat REAL NOT NULL,
		max_lng REAL NOT NULL,
		max_lat REAL NOT NULL,
		dir_east REAL NOT NULL,
		dir_north REAL NOT NULL,
		multiplier REAL NOT NULL
	);

	CREATE TABLE IF NOT EXISTS markets (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		anchor INTEGER NOT NULL,
		terminal INTEGER NOT NULL
	);

	CREATE TABLE IF NOT EXISTS base_prices (
		good TEXT PRIMARY KEY,
		base REAL NOT NULL,
		demand_weight REAL NOT NULL
	);

	CREATE TABLE IF NOT EXISTS nations (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		parent_id INTEGER NOT NULL,
		tax_rate REAL NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_regions_coord ON regions(q, r);
	`
	_, err := db.conn.Exec(schema)
	return err
}

type regionRow struct {
	ID          int64    `db:"id"`
	Q           int      `db:"q"`
	R           int      `db:"r"`
	Lat         *float64 `db:"lat"`
	Lng         *float64 `db:"lng"`
	Terrain     int      `db:"terrain"`
	Tier        int      `db:"tier"`
	Named       int      `db:"named"`
	Name        *string  `db:"name"`
	Population  int      `db:"population"`
	Development float64  `db:"development"`
	Production  string   `db:"production_json"`
	OwnerID     int64    `db:"owner_id"`
}

// LoadRegions reads the full region roster.
func (db *DB) LoadRegions() ([]*world.Region, error) {
	var rows []regionRow
	if err := db.conn.Select(&rows, "SELECT * FROM regions ORDER BY id"); err != nil {
		return nil, fmt.Errorf("load regions: %w", err)
	}

	regions := make([]*world.Region, 0, len(rows))
	for _, row := range rows {
		r := &world.Region{
			ID:          world.RegionID(row.ID),
			Coord:       world.HexCoord{Q: row.Q, R: row.R},
			Terrain:     world.Terrain(row.Terrain),
			Tier:        world.SettlementTier(row.Tier),
			Named:       row.Named != 0,
			Population:  row.Population,
			Development: row.Development,
			OwnerID:     world.NationID(row.OwnerID),
		}
		if row.Lat != nil && row.Lng != nil {
			r.Lat, r.Lng, r.HasGeo = *row.Lat, *row.Lng, true
		}
		if row.Name != nil {
			r.Name = *row.Name
		}
		if row.Production != "" {
			if err := json.Unmarshal([]byte(row.Production), &r.Production); err != nil {
				return nil, fmt.Errorf("region %d: decode production: %w", row.ID, err)
			}
		}
		regions = append(regions, r)
	}
	return regions, nil
}

// SaveRegions writes a region roster (full replace). Used by dataset
// authoring and test fixtures.
func (db *DB) SaveRegions(regions []*world.Region) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM regions"); err != nil {
		return err
	}
	stmt := `INSERT INTO regions
		(id, q, r, lat, lng, terrain, tier, named, name, population, development, production_json, owner_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	for _, r := range regions {
		prod, err := json.Marshal(r.Production)
		if err != nil {
			return fmt.Errorf("region %d: encode production: %w", r.ID, err)
		}
		var lat, lng interface{}
		if r.HasGeo {
			lat, lng = r.Lat, r.Lng
		}
		named := 0
		if r.Named {
			named = 1
		}
		if _, err := tx.Exec(stmt,
			int64(r.ID), r.Coord.Q, r.Coord.R, lat, lng,
			int(r.Terrain), int(r.Tier), named, r.Name,
			r.Population, r.Development, string(prod), int64(r.OwnerID)); err != nil {
			return fmt.Errorf("insert region %d: %w", r.ID, err)
		}
	}
	return tx.Commit()
}

// LoadCurrents reads the ocean current zones.
func (db *DB) LoadCurrents() ([]world.OceanCurrent, error) {
	var rows []struct {
		Name       string  `db:"name"`
		MinLng     float64 `db:"min_lng"`
		MinLat     float64 `db:"min_lat"`
		MaxLng     float64 `db:"max_lng"`
		MaxLat     float64 `db:"max_lat"`
		DirEast    float64 `db:"dir_east"`
		DirNorth   float64 `db:"dir_north"`
		Multiplier float64 `db:"multiplier"`
	}
	if err := db.conn.Select(&rows, "SELECT * FROM ocean_currents ORDER BY name"); err != nil {
		return nil, fmt.Errorf("load currents: %w", err)
	}

	currents := make([]world.OceanCurrent, 0, len(rows))
	for _, row := range rows {
		c := world.OceanCurrent{
			Name: row.Name,
			Zone: orb.Bound{
				Min: orb.Point{row.MinLng, row.MinLat},
				Max: orb.Point{row.MaxLng, row.MaxLat},
			},
			DirEast:    row.DirEast,
			DirNorth:   row.DirNorth,
			Multiplier: row.Multiplier,
		}
		if err := c.Validate(); err != nil {
			return nil, fmt.Errorf("load currents: %w", err)
		}
		currents = append(currents, c)
	}
	return currents, nil
}

// SaveCurrents writes the ocean current zones (full replace).
func (db *DB) SaveCurrents(currents []world.OceanCurrent) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM ocean_currents"); err != nil {
		return err
	}
	for _, c := range currents {
		if _, err := tx.Exec(
			`INSERT INTO ocean_currents VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			c.Name, c.Zone.Min[0], c.Zone.Min[1], c.Zone.Max[0], c.Zone.Max[1],
			c.DirEast, c.DirNorth, c.Multiplier); err != nil {
			return fmt.Errorf("insert current %q: %w", c.Name, err)
		}
	}
	return tx.Commit()
}

// LoadMarkets reads the hand-authored market roster.
func (db *DB) LoadMarkets() ([]trade.MarketSpec, error) {
	var rows []struct {
		ID       int64  `db:"id"`
		Name     string `db:"name"`
		Anchor   int64  `db:"anchor"`
		Terminal int    `db:"terminal"`
	}
	if err := db.conn.Select(&rows, "SELECT * FROM markets ORDER BY id"); err != nil {
		return nil, fmt.Errorf("load markets: %w", err)
	}

	specs := make([]trade.MarketSpec, 0, len(rows))
	for _, row := range rows {
		specs = append(specs, trade.MarketSpec{
			ID:       trade.MarketID(row.ID),
			Name:     row.Name,
			Anchor:   world.RegionID(row.Anchor),
			Terminal: row.Terminal != 0,
		})
	}
	return specs, nil
}

// SaveMarkets writes the market roster (full replace).
func (db *DB) SaveMarkets(specs []trade.MarketSpec) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM markets"); err != nil {
		return err
	}
	for _, s := range specs {
		terminal := 0
		if s.Terminal {
			terminal = 1
		}
		if _, err := tx.Exec(`INSERT INTO markets VALUES (?, ?, ?, ?)`,
			int64(s.ID), s.Name, int64(s.Anchor), terminal); err != nil {
			return fmt.Errorf("insert market %d: %w", s.ID, err)
		}
	}
	return tx.Commit()
}

// LoadPrices reads the base-price table.
func (db *DB) LoadPrices() (trade.PriceTable, error) {
	var rows []struct {
		Good         string  `db:"good"`
		Base         float64 `db:"base"`
		DemandWeight float64 `db:"demand_weight"`
	}
	if err := db.conn.Select(&rows, "SELECT * FROM base_prices ORDER BY good"); err != nil {
		return nil, fmt.Errorf("load prices: %w", err)
	}

	table := make(trade.PriceTable, len(rows))
	for _, row := range rows {
		table[world.GoodID(row.Good)] = trade.GoodPrice{
			Base:         row.Base,
			DemandWeight: row.DemandWeight,
		}
	}
	if err := table.Validate(); err != nil {
		return nil, fmt.Errorf("load prices: %w", err)
	}
	return table, nil
}

// SavePrices writes the base-price table (full replace).
func (db *DB) SavePrices(table trade.PriceTable) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM base_prices"); err != nil {
		return err
	}
	for good, gp := range table {
		if _, err := tx.Exec(`INSERT INTO base_prices VALUES (?, ?, ?)`,
			string(good), gp.Base, gp.DemandWeight); err != nil {
			return fmt.Errorf("insert price %q: %w", good, err)
		}
	}
	return tx.Commit()
}

// LoadOwnership reads the nation table into a StaticOwnership resolver.
func (db *DB) LoadOwnership() (*trade.StaticOwnership, error) {
	var rows []struct {
		ID       int64   `db:"id"`
		Name     string  `db:"name"`
		ParentID int64   `db:"parent_id"`
		TaxRate  float64 `db:"tax_rate"`
	}
	if err := db.conn.Select(&rows, "SELECT * FROM nations ORDER BY id"); err != nil {
		return nil, fmt.Errorf("load nations: %w", err)
	}

	own := &trade.StaticOwnership{
		Parent: make(map[world.NationID]world.NationID, len(rows)),
		Tax:    make(map[world.NationID]float64, len(rows)),
	}
	for _, row := range rows {
		own.Parent[world.NationID(row.ID)] = world.NationID(row.ParentID)
		own.Tax[world.NationID(row.ID)] = row.TaxRate
	}
	return own, nil
}

// SaveOwnership writes the nation table (full replace).
func (db *DB) SaveOwnership(own *trade.StaticOwnership, names map[world.NationID]string) error {
	tx, err := db.conn.Beginx()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM nations"); err != nil {
		return err
	}
	for id, parent := range own.Parent {
		if _, err := tx.Exec(`INSERT INTO nations VALUES (?, ?, ?, ?)`,
			int64(id), names[id], int64(parent), own.Tax[id]); err != nil {
			return fmt.Errorf("insert nation %d: %w", id, err)
		}
	}
	return tx.Commit()
}
