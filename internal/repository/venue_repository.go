package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/venue-booking/internal/model"
)

// VenueRepo manages persistence for venues.
type VenueRepo struct {
	db *sql.DB
}

// NewVenueRepo constructs a VenueRepo with the given DB handle.
func NewVenueRepo(db *sql.DB) *VenueRepo {
	return &VenueRepo{db: db}
}

// CityVenueRow is one venue of the city-grouped listing.
type CityVenueRow struct {
	CityID        uint64
	CityName      string
	CityState     string
	VenueID       uint64
	VenueName     string
	UpcomingShows int
}

const venueColumns = `v.id, v.name, v.genres, v.city_id, c.name, v.state, v.address, v.phone,
       v.image_link, v.facebook_link, v.website, v.seeking_talent, v.seeking_description`

func scanVenue(row interface{ Scan(...any) error }, v *model.Venue) error {
	return row.Scan(&v.ID, &v.Name, &v.Genres, &v.CityID, &v.CityName, &v.State, &v.Address, &v.Phone,
		&v.ImageLink, &v.FacebookLink, &v.Website, &v.SeekingTalent, &v.SeekingDescription)
}

// CreateTx inserts a venue using the caller's transaction.  CityID must
// already reference an existing city.  The generated id is assigned back.
func (r *VenueRepo) CreateTx(ctx context.Context, tx *sql.Tx, v *model.Venue) error {
	const q = `INSERT INTO venues (name, genres, city_id, state, address, phone, image_link,
	                               facebook_link, website, seeking_talent, seeking_description)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, v.Name, v.Genres, v.CityID, v.State, v.Address, v.Phone, v.ImageLink,
		v.FacebookLink, v.Website, v.SeekingTalent, v.SeekingDescription)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	v.ID = uint64(id)
	return nil
}

// GetByID retrieves a venue with its city name.  It returns
// ErrVenueNotFound when there is no matching row.
func (r *VenueRepo) GetByID(ctx context.Context, id uint64) (*model.Venue, error) {
	return getVenue(ctx, r.db, id)
}

func getVenue(ctx context.Context, q querier, id uint64) (*model.Venue, error) {
	sel := `SELECT ` + venueColumns + ` FROM venues v JOIN cities c ON c.id = v.city_id WHERE v.id = ?`
	var v model.Venue
	if err := scanVenue(q.QueryRowContext(ctx, sel, id), &v); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrVenueNotFound
		}
		return nil, err
	}
	return &v, nil
}

// UpdateTx overwrites every editable column of the venue.  It returns
// ErrVenueNotFound when no row has v.ID.
func (r *VenueRepo) UpdateTx(ctx context.Context, tx *sql.Tx, v *model.Venue) error {
	const q = `UPDATE venues
	           SET name = ?, genres = ?, city_id = ?, state = ?, address = ?, phone = ?, image_link = ?,
	               facebook_link = ?, website = ?, seeking_talent = ?, seeking_description = ?
	           WHERE id = ?`
	if _, err := tx.ExecContext(ctx, q, v.Name, v.Genres, v.CityID, v.State, v.Address, v.Phone, v.ImageLink,
		v.FacebookLink, v.Website, v.SeekingTalent, v.SeekingDescription, v.ID); err != nil {
		return err
	}
	// RowsAffected is 0 on MySQL when nothing changed, so existence is checked separately.
	var one int
	if err := tx.QueryRowContext(ctx, `SELECT 1 FROM venues WHERE id = ?`, v.ID).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrVenueNotFound
		}
		return err
	}
	return nil
}

// DeleteCascade removes a venue together with the shows held there.  Both
// deletes run in one transaction; ErrVenueNotFound is returned when the
// venue does not exist.
func (r *VenueRepo) DeleteCascade(ctx context.Context, id uint64) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()
	var one int
	if err = tx.QueryRowContext(ctx, `SELECT 1 FROM venues WHERE id = ?`, id).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrVenueNotFound
		}
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM shows WHERE venue_id = ?`, id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM venues WHERE id = ?`, id); err != nil {
		return err
	}
	return nil
}

// ExistsTx reports whether a venue with id exists.
func (r *VenueRepo) ExistsTx(ctx context.Context, tx *sql.Tx, id uint64) (bool, error) {
	var one int
	err := tx.QueryRowContext(ctx, `SELECT 1 FROM venues WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

// SearchByName returns venues whose name contains term ignoring case,
// each with its number of shows starting at or after now.
func (r *VenueRepo) SearchByName(ctx context.Context, term string, now time.Time) ([]Summary, error) {
	const q = `SELECT v.id, v.name,
	                  (SELECT COUNT(*) FROM shows s WHERE s.venue_id = v.id AND s.start_time >= ?)
	           FROM venues v
	           WHERE LOWER(v.name) LIKE ? ESCAPE '!'
	           ORDER BY v.name, v.id`
	return querySummaries(ctx, r.db, q, dbTime(now), likeContains(term))
}

// ListGroupedByCity returns every venue joined with its city, ordered by
// city name then venue name.  Cities without venues never appear.
func (r *VenueRepo) ListGroupedByCity(ctx context.Context, now time.Time) ([]CityVenueRow, error) {
	const q = `SELECT c.id, c.name, c.state, v.id, v.name,
	                  (SELECT COUNT(*) FROM shows s WHERE s.venue_id = v.id AND s.start_time >= ?)
	           FROM cities c
	           JOIN venues v ON v.city_id = c.id
	           ORDER BY c.name, c.id, v.name, v.id`
	rows, err := r.db.QueryContext(ctx, q, dbTime(now))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []CityVenueRow
	for rows.Next() {
		var row CityVenueRow
		if err := rows.Scan(&row.CityID, &row.CityName, &row.CityState, &row.VenueID, &row.VenueName, &row.UpcomingShows); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListOptions returns id/name pairs of all venues ordered by name, for
// select inputs.
func (r *VenueRepo) ListOptions(ctx context.Context) ([]Summary, error) {
	return querySummaries(ctx, r.db, `SELECT id, name, 0 FROM venues ORDER BY name, id`)
}

// Count returns the number of venues.
func (r *VenueRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM venues`).Scan(&n)
	return n, err
}

func querySummaries(ctx context.Context, q querier, query string, args ...any) ([]Summary, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Summary{}
	for rows.Next() {
		var s Summary
		if err := rows.Scan(&s.ID, &s.Name, &s.UpcomingShows); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
