package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/venue-booking/internal/model"
)

// ArtistRepo encapsulates queries on the artists table.
type ArtistRepo struct {
	db *sql.DB
}

// NewArtistRepo constructs an ArtistRepo.
func NewArtistRepo(db *sql.DB) *ArtistRepo {
	return &ArtistRepo{db: db}
}

const artistColumns = `id, name, city, state, phone, genres, image_link, facebook_link, website,
       seeking_venue, seeking_description`

// CreateTx inserts an artist within tx and stores the new id on a.
func (r *ArtistRepo) CreateTx(ctx context.Context, tx *sql.Tx, a *model.Artist) error {
	const q = `INSERT INTO artists (name, city, state, phone, genres, image_link, facebook_link, website,
	                                seeking_venue, seeking_description)
	           VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q, a.Name, a.City, a.State, a.Phone, a.Genres, a.ImageLink,
		a.FacebookLink, a.Website, a.SeekingVenue, a.SeekingDescription)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	return nil
}

// GetByID returns the artist or ErrArtistNotFound.
func (r *ArtistRepo) GetByID(ctx context.Context, id uint64) (*model.Artist, error) {
	const q = `SELECT ` + artistColumns + ` FROM artists WHERE id = ?`
	var a model.Artist
	err := r.db.QueryRowContext(ctx, q, id).Scan(&a.ID, &a.Name, &a.City, &a.State, &a.Phone, &a.Genres,
		&a.ImageLink, &a.FacebookLink, &a.Website, &a.SeekingVenue, &a.SeekingDescription)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrArtistNotFound
		}
		return nil, err
	}
	return &a, nil
}

// UpdateTx overwrites the editable columns of a.  ErrArtistNotFound is
// returned when a.ID does not exist.
func (r *ArtistRepo) UpdateTx(ctx context.Context, tx *sql.Tx, a *model.Artist) error {
	ok, err := r.ExistsTx(ctx, tx, a.ID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrArtistNotFound
	}
	const q = `UPDATE artists
	           SET name = ?, city = ?, state = ?, phone = ?, genres = ?, image_link = ?, facebook_link = ?,
	               website = ?, seeking_venue = ?, seeking_description = ?
	           WHERE id = ?`
	_, err = tx.ExecContext(ctx, q, a.Name, a.City, a.State, a.Phone, a.Genres, a.ImageLink,
		a.FacebookLink, a.Website, a.SeekingVenue, a.SeekingDescription, a.ID)
	return err
}

// ExistsTx reports whether an artist with id exists.
func (r *ArtistRepo) ExistsTx(ctx context.Context, tx *sql.Tx, id uint64) (bool, error) {
	var one int
	err := tx.QueryRowContext(ctx, `SELECT 1 FROM artists WHERE id = ?`, id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

// SearchByName matches artist names containing term, ignoring case.
func (r *ArtistRepo) SearchByName(ctx context.Context, term string, now time.Time) ([]Summary, error) {
	const q = `SELECT a.id, a.name,
	                  (SELECT COUNT(*) FROM shows s WHERE s.artist_id = a.id AND s.start_time >= ?)
	           FROM artists a
	           WHERE LOWER(a.name) LIKE ? ESCAPE '!'
	           ORDER BY a.name, a.id`
	return querySummaries(ctx, r.db, q, dbTime(now), likeContains(term))
}

// ListWithUpcoming lists every artist ordered by name with its upcoming
// show count.
func (r *ArtistRepo) ListWithUpcoming(ctx context.Context, now time.Time) ([]Summary, error) {
	const q = `SELECT a.id, a.name,
	                  (SELECT COUNT(*) FROM shows s WHERE s.artist_id = a.id AND s.start_time >= ?)
	           FROM artists a
	           ORDER BY a.name, a.id`
	return querySummaries(ctx, r.db, q, dbTime(now))
}

// ListOptions returns id/name pairs for select inputs.
func (r *ArtistRepo) ListOptions(ctx context.Context) ([]Summary, error) {
	return querySummaries(ctx, r.db, `SELECT id, name, 0 FROM artists ORDER BY name, id`)
}
