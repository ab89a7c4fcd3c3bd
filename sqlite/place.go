package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/fwojciec/heritage"
)

// Compile-time interface verification.
var _ heritage.RecordWriter = (*PlaceWriter)(nil)

// Place is a stored row of the places table.
type Place struct {
	Record     *heritage.Record
	RecordHash string
	RunID      string
	ScrapedAt  time.Time
}

// PlaceFilter selects places in FindPlaces.
type PlaceFilter struct {
	RunID  *string
	Region *string
	Limit  int
	Offset int
}

// PlaceWriter writes records to the places table. Rows are keyed by record
// ID, so re-scraping an ID replaces its row.
type PlaceWriter struct {
	db    *DB
	runID string
}

// NewPlaceWriter creates a PlaceWriter that tags rows with runID.
// The run must have been started with RunService.StartRun.
func NewPlaceWriter(db *DB, runID string) *PlaceWriter {
	return &PlaceWriter{db: db, runID: runID}
}

// placeColumns lists the places columns in insert order.
func placeColumns() []string {
	cols := []string{"id", "title", "subtitle"}
	cols = append(cols, heritage.FieldKeys()...)
	return append(cols, "gps_x", "gps_y", "srid", "geom", "record_hash", "run_id", "scraped_at")
}

// WriteRecord upserts the record's row.
func (w *PlaceWriter) WriteRecord(ctx context.Context, r *heritage.Record) error {
	if err := r.Validate(); err != nil {
		return err
	}

	data, err := r.MarshalJSON()
	if err != nil {
		return err
	}

	args := []any{r.ID, r.Title, r.Subtitle}
	for _, key := range heritage.FieldKeys() {
		args = append(args, nullString(r.Fields[key]))
	}
	var gpsX, gpsY, srid sql.NullInt64
	var geom sql.NullString
	if c := r.Coordinate; c != nil {
		gpsX = sql.NullInt64{Int64: int64(c.Easting), Valid: true}
		gpsY = sql.NullInt64{Int64: int64(c.Northing), Valid: true}
		srid = sql.NullInt64{Int64: heritage.CoordinateSRID, Valid: true}
		geom = sql.NullString{String: c.WKT(), Valid: true}
	}
	args = append(args, gpsX, gpsY, srid, geom, hashContent(data), w.runID,
		time.Now().UTC().Format(time.RFC3339))

	cols := placeColumns()
	var query strings.Builder
	query.WriteString("INSERT INTO places (")
	query.WriteString(strings.Join(cols, ", "))
	query.WriteString(") VALUES (")
	query.WriteString(strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", "))
	query.WriteString(") ON CONFLICT(id) DO UPDATE SET ")
	for i, col := range cols[1:] {
		if i > 0 {
			query.WriteString(", ")
		}
		query.WriteString(col + " = excluded." + col)
	}

	_, err = w.db.ExecContext(ctx, query.String(), args...)
	return err
}

// Close is a no-op; the DB is closed by its owner.
func (w *PlaceWriter) Close() error {
	return nil
}

// PlaceService reads stored places.
type PlaceService struct {
	db *DB
}

// NewPlaceService creates a new PlaceService.
func NewPlaceService(db *DB) *PlaceService {
	return &PlaceService{db: db}
}

// FindPlaceByID retrieves a place by record ID.
func (s *PlaceService) FindPlaceByID(ctx context.Context, id int) (*Place, error) {
	query := "SELECT " + strings.Join(placeColumns(), ", ") + " FROM places WHERE id = ?"
	place, err := scanPlace(s.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, heritage.Errorf(heritage.ENOTFOUND, "place %d not found", id)
	}
	return place, err
}

// FindPlaces retrieves places matching the filter, ordered by ID.
func (s *PlaceService) FindPlaces(ctx context.Context, filter PlaceFilter) ([]*Place, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + strings.Join(placeColumns(), ", ") + " FROM places WHERE 1=1")
	if filter.RunID != nil {
		query.WriteString(" AND run_id = ?")
		args = append(args, *filter.RunID)
	}
	if filter.Region != nil {
		query.WriteString(" AND region = ?")
		args = append(args, *filter.Region)
	}
	query.WriteString(" ORDER BY id")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var places []*Place
	for rows.Next() {
		place, err := scanPlace(rows)
		if err != nil {
			return nil, err
		}
		places = append(places, place)
	}
	return places, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPlace(row scanner) (*Place, error) {
	keys := heritage.FieldKeys()
	values := make([]sql.NullString, len(keys))

	rec := &heritage.Record{}
	var gpsX, gpsY, srid sql.NullInt64
	var geom sql.NullString
	var place Place
	var scrapedAt string

	dest := []any{&rec.ID, &rec.Title, &rec.Subtitle}
	for i := range values {
		dest = append(dest, &values[i])
	}
	dest = append(dest, &gpsX, &gpsY, &srid, &geom, &place.RecordHash, &place.RunID, &scrapedAt)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	for i, v := range values {
		if v.Valid {
			rec.Set(keys[i], v.String)
		}
	}
	if gpsX.Valid && gpsY.Valid {
		rec.Coordinate = &heritage.Coordinate{Easting: int(gpsX.Int64), Northing: int(gpsY.Int64)}
	}

	t, err := parseRFC3339(scrapedAt, "scraped_at")
	if err != nil {
		return nil, err
	}
	place.ScrapedAt = t
	place.Record = rec
	return &place, nil
}
