package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/venue-booking/internal/model"
)

// CityRepo encapsulates all queries related to cities.  Cities are keyed
// by name ignoring case; there is no delete path.
type CityRepo struct {
	db *sql.DB
}

// NewCityRepo constructs a CityRepo with the provided DB handle.
func NewCityRepo(db *sql.DB) *CityRepo {
	return &CityRepo{db: db}
}

// FindByName looks a city up by name ignoring case and surrounding space.
// When duplicates exist from older data the lowest id wins.
func (r *CityRepo) FindByName(ctx context.Context, name string) (*model.City, error) {
	return findCityByName(ctx, r.db, name)
}

// ResolveTx returns the city called name, creating it with state when no
// city matches.  created reports whether a row was inserted.
func (r *CityRepo) ResolveTx(ctx context.Context, tx *sql.Tx, name, state string) (city *model.City, created bool, err error) {
	city, err = findCityByName(ctx, tx, name)
	if err == nil {
		return city, false, nil
	}
	if !errors.Is(err, ErrCityNotFound) {
		return nil, false, err
	}
	city = &model.City{Name: strings.TrimSpace(name), State: state}
	res, err := tx.ExecContext(ctx, `INSERT INTO cities (name, state) VALUES (?, ?)`, city.Name, city.State)
	if err != nil {
		return nil, false, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, false, err
	}
	city.ID = uint64(id)
	return city, true, nil
}

// Count returns the number of cities.
func (r *CityRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM cities`).Scan(&n)
	return n, err
}

func findCityByName(ctx context.Context, q querier, name string) (*model.City, error) {
	const sel = `SELECT id, name, state FROM cities WHERE LOWER(name) = ? ORDER BY id LIMIT 1`
	var c model.City
	err := q.QueryRowContext(ctx, sel, strings.ToLower(strings.TrimSpace(name))).Scan(&c.ID, &c.Name, &c.State)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCityNotFound
		}
		return nil, err
	}
	return &c, nil
}
