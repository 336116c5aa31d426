package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/venue-booking/internal/model"
)

// ShowRepo manages persistence for shows.  Start times are stored in DB
// format "2006-01-02 15:04:05" (UTC) so that string comparison on SQLite
// orders the same way DATETIME does on MySQL.
type ShowRepo struct {
	db *sql.DB
}

// NewShowRepo constructs a ShowRepo with the given DB handle.
func NewShowRepo(db *sql.DB) *ShowRepo {
	return &ShowRepo{db: db}
}

// ShowRow is a show seen from one side: the counterparty is the artist
// when listing a venue's shows and the venue when listing an artist's.
type ShowRow struct {
	ShowID            uint64
	CounterpartyID    uint64
	CounterpartyName  string
	CounterpartyImage string
	StartTime         time.Time
}

// ShowListingRow is one line of the global show listing.
type ShowListingRow struct {
	ID             uint64
	VenueID        uint64
	VenueName      string
	ArtistID       uint64
	ArtistName     string
	ArtistImageURL string
	StartTime      time.Time
}

// CreateTx inserts a show using the provided transaction.  The caller
// commits or rolls back.  The generated id is assigned to s.
func (r *ShowRepo) CreateTx(ctx context.Context, tx *sql.Tx, s *model.Show) error {
	const q = `INSERT INTO shows (artist_id, venue_id, start_time) VALUES (?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, s.ArtistID, s.VenueID, dbTime(s.StartTime))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return nil
}

// GetByID retrieves a show by its ID.  It returns ErrShowNotFound if
// there is no matching row.
func (r *ShowRepo) GetByID(ctx context.Context, id uint64) (*model.Show, error) {
	const q = `SELECT id, artist_id, venue_id, start_time FROM shows WHERE id = ?`
	var (
		s  model.Show
		st sqlTime
	)
	if err := r.db.QueryRowContext(ctx, q, id).Scan(&s.ID, &s.ArtistID, &s.VenueID, &st); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrShowNotFound
		}
		return nil, err
	}
	s.StartTime = st.Time
	return &s, nil
}

// DeleteByID removes a single show.  ErrShowNotFound is returned when no
// row was deleted.
func (r *ShowRepo) DeleteByID(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM shows WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrShowNotFound
	}
	return nil
}

// ListForVenue returns every show held at the venue with the performing
// artist as counterparty, ordered by start time ascending.
func (r *ShowRepo) ListForVenue(ctx context.Context, venueID uint64) ([]ShowRow, error) {
	const q = `SELECT s.id, a.id, a.name, a.image_link, s.start_time
	           FROM shows s
	           JOIN artists a ON a.id = s.artist_id
	           WHERE s.venue_id = ?
	           ORDER BY s.start_time ASC, s.id ASC`
	return r.listRows(ctx, q, venueID)
}

// ListForArtist returns every show the artist plays with the venue as
// counterparty, ordered by start time ascending.
func (r *ShowRepo) ListForArtist(ctx context.Context, artistID uint64) ([]ShowRow, error) {
	const q = `SELECT s.id, v.id, v.name, v.image_link, s.start_time
	           FROM shows s
	           JOIN venues v ON v.id = s.venue_id
	           WHERE s.artist_id = ?
	           ORDER BY s.start_time ASC, s.id ASC`
	return r.listRows(ctx, q, artistID)
}

func (r *ShowRepo) listRows(ctx context.Context, q string, id uint64) ([]ShowRow, error) {
	rows, err := r.db.QueryContext(ctx, q, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []ShowRow
	for rows.Next() {
		var (
			s  ShowRow
			st sqlTime
		)
		if err := rows.Scan(&s.ShowID, &s.CounterpartyID, &s.CounterpartyName, &s.CounterpartyImage, &st); err != nil {
			return nil, err
		}
		s.StartTime = st.Time
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListAll returns every show with venue and artist names, ordered by id.
func (r *ShowRepo) ListAll(ctx context.Context) ([]ShowListingRow, error) {
	const q = `SELECT s.id, v.id, v.name, a.id, a.name, a.image_link, s.start_time
	           FROM shows s
	           JOIN venues v ON v.id = s.venue_id
	           JOIN artists a ON a.id = s.artist_id
	           ORDER BY s.id ASC`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var result []ShowListingRow
	for rows.Next() {
		var (
			s  ShowListingRow
			st sqlTime
		)
		if err := rows.Scan(&s.ID, &s.VenueID, &s.VenueName, &s.ArtistID, &s.ArtistName, &s.ArtistImageURL, &st); err != nil {
			return nil, err
		}
		s.StartTime = st.Time
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// CountForVenue returns the number of shows at a venue.
func (r *ShowRepo) CountForVenue(ctx context.Context, venueID uint64) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM shows WHERE venue_id = ?`, venueID).Scan(&n)
	return n, err
}
