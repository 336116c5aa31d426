package repository

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/iliyamo/venue-booking/internal/database"
	"github.com/iliyamo/venue-booking/internal/model"
)

var testNow = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func openStore(t *testing.T) *sql.DB {
	t.Helper()
	db, err := database.Open(database.Options{Driver: database.DriverSQLite, Path: filepath.Join(t.TempDir(), "repo.db")})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := database.Migrate(context.Background(), db, database.DriverSQLite); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedVenue(t *testing.T, db *sql.DB, name, city string) *model.Venue {
	t.Helper()
	ctx := context.Background()
	v := &model.Venue{Name: name, State: "MA", Genres: model.Genres{model.GenreJazz}}
	err := database.WithTx(ctx, db, func(tx *sql.Tx) error {
		c, _, err := NewCityRepo(db).ResolveTx(ctx, tx, city, "MA")
		if err != nil {
			return err
		}
		v.CityID = c.ID
		return NewVenueRepo(db).CreateTx(ctx, tx, v)
	})
	if err != nil {
		t.Fatalf("seed venue %s: %v", name, err)
	}
	return v
}

func seedArtist(t *testing.T, db *sql.DB, name string) *model.Artist {
	t.Helper()
	ctx := context.Background()
	a := &model.Artist{Name: name, City: "Boston", State: "MA", ImageLink: "https://img/" + name}
	err := database.WithTx(ctx, db, func(tx *sql.Tx) error {
		return NewArtistRepo(db).CreateTx(ctx, tx, a)
	})
	if err != nil {
		t.Fatalf("seed artist %s: %v", name, err)
	}
	return a
}

func seedShow(t *testing.T, db *sql.DB, artistID, venueID uint64, start time.Time) *model.Show {
	t.Helper()
	ctx := context.Background()
	s := &model.Show{ArtistID: artistID, VenueID: venueID, StartTime: start}
	err := database.WithTx(ctx, db, func(tx *sql.Tx) error {
		return NewShowRepo(db).CreateTx(ctx, tx, s)
	})
	if err != nil {
		t.Fatalf("seed show: %v", err)
	}
	return s
}

func TestCityResolveIsCaseInsensitive(t *testing.T) {
	db := openStore(t)
	ctx := context.Background()
	cities := NewCityRepo(db)

	var first, second *model.City
	var created1, created2 bool
	err := database.WithTx(ctx, db, func(tx *sql.Tx) (err error) {
		if first, created1, err = cities.ResolveTx(ctx, tx, "Boston", "MA"); err != nil {
			return err
		}
		second, created2, err = cities.ResolveTx(ctx, tx, "  bOSTON ", "MA")
		return err
	})
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !created1 || created2 {
		t.Fatalf("created = %v, %v; want true, false", created1, created2)
	}
	if first.ID != second.ID || second.Name != "Boston" {
		t.Fatalf("second = %+v, want id %d named Boston", second, first.ID)
	}
	if n, _ := cities.Count(ctx); n != 1 {
		t.Fatalf("cities = %d, want 1", n)
	}
	if _, err := cities.FindByName(ctx, "Chicago"); !errors.Is(err, ErrCityNotFound) {
		t.Fatalf("find Chicago err = %v", err)
	}
}

func TestVenueRoundTripAndUpdate(t *testing.T) {
	db := openStore(t)
	ctx := context.Background()
	venues := NewVenueRepo(db)
	v := seedVenue(t, db, "The Dome", "Boston")

	got, err := venues.GetByID(ctx, v.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.CityName != "Boston" || len(got.Genres) != 1 || got.Genres[0] != model.GenreJazz {
		t.Fatalf("venue = %+v", got)
	}

	got.Name = "The New Dome"
	got.SeekingTalent = true
	if err := database.WithTx(ctx, db, func(tx *sql.Tx) error { return venues.UpdateTx(ctx, tx, got) }); err != nil {
		t.Fatalf("update: %v", err)
	}
	again, _ := venues.GetByID(ctx, v.ID)
	if again.Name != "The New Dome" || !again.SeekingTalent {
		t.Fatalf("after update = %+v", again)
	}

	missing := &model.Venue{ID: 999, CityID: v.CityID}
	err = database.WithTx(ctx, db, func(tx *sql.Tx) error { return venues.UpdateTx(ctx, tx, missing) })
	if !errors.Is(err, ErrVenueNotFound) {
		t.Fatalf("update missing err = %v", err)
	}
}

func TestVenueSearchEscapesWildcards(t *testing.T) {
	db := openStore(t)
	ctx := context.Background()
	seedVenue(t, db, "Music Hall", "Boston")
	seedVenue(t, db, "HALLway Club", "Boston")
	seedVenue(t, db, "The Dome", "Boston")
	seedVenue(t, db, "100% Sound", "Boston")

	res, err := NewVenueRepo(db).SearchByName(ctx, "hall", testNow)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(res) != 2 || res[0].Name != "HALLway Club" || res[1].Name != "Music Hall" {
		t.Fatalf("search hall = %+v", res)
	}
	res, _ = NewVenueRepo(db).SearchByName(ctx, "%", testNow)
	if len(res) != 1 || res[0].Name != "100% Sound" {
		t.Fatalf("search %% = %+v", res)
	}
}

func TestVenueListGroupedByCityCountsUpcoming(t *testing.T) {
	db := openStore(t)
	ctx := context.Background()
	dome := seedVenue(t, db, "The Dome", "Boston")
	seedVenue(t, db, "Blue Note", "Austin")
	a := seedArtist(t, db, "Miles")
	seedShow(t, db, a.ID, dome.ID, testNow.Add(-time.Hour))
	seedShow(t, db, a.ID, dome.ID, testNow)
	seedShow(t, db, a.ID, dome.ID, testNow.Add(48*time.Hour))

	rows, err := NewVenueRepo(db).ListGroupedByCity(ctx, testNow)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(rows) != 2 || rows[0].CityName != "Austin" || rows[1].CityName != "Boston" {
		t.Fatalf("rows = %+v", rows)
	}
	if rows[1].UpcomingShows != 2 {
		t.Fatalf("dome upcoming = %d, want 2 (start == now counts)", rows[1].UpcomingShows)
	}
}

func TestVenueDeleteCascadesShows(t *testing.T) {
	db := openStore(t)
	ctx := context.Background()
	venues := NewVenueRepo(db)
	shows := NewShowRepo(db)
	v := seedVenue(t, db, "The Dome", "Boston")
	a := seedArtist(t, db, "Miles")
	s := seedShow(t, db, a.ID, v.ID, testNow)

	if err := venues.DeleteCascade(ctx, v.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := venues.GetByID(ctx, v.ID); !errors.Is(err, ErrVenueNotFound) {
		t.Fatalf("get deleted venue err = %v", err)
	}
	if _, err := shows.GetByID(ctx, s.ID); !errors.Is(err, ErrShowNotFound) {
		t.Fatalf("get cascaded show err = %v", err)
	}
	if err := venues.DeleteCascade(ctx, v.ID); !errors.Is(err, ErrVenueNotFound) {
		t.Fatalf("second delete err = %v", err)
	}
}

func TestArtistUpdateAndList(t *testing.T) {
	db := openStore(t)
	ctx := context.Background()
	artists := NewArtistRepo(db)
	b := seedArtist(t, db, "Zed")
	seedArtist(t, db, "Ana")

	b.City = "Austin"
	b.Genres = model.Genres{model.GenreRnB, model.GenreSoul}
	if err := database.WithTx(ctx, db, func(tx *sql.Tx) error { return artists.UpdateTx(ctx, tx, b) }); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := artists.GetByID(ctx, b.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.City != "Austin" || len(got.Genres) != 2 || got.Genres[1] != model.GenreSoul {
		t.Fatalf("artist = %+v", got)
	}

	list, err := artists.ListWithUpcoming(ctx, testNow)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].Name != "Ana" {
		t.Fatalf("list = %+v", list)
	}
	if _, err := artists.GetByID(ctx, 404); !errors.Is(err, ErrArtistNotFound) {
		t.Fatalf("get missing err = %v", err)
	}
}

func TestShowListingsResolveCounterparties(t *testing.T) {
	db := openStore(t)
	ctx := context.Background()
	shows := NewShowRepo(db)
	v := seedVenue(t, db, "The Dome", "Boston")
	a := seedArtist(t, db, "Miles")
	later := seedShow(t, db, a.ID, v.ID, testNow.Add(time.Hour))
	earlier := seedShow(t, db, a.ID, v.ID, testNow.Add(-time.Hour))

	forVenue, err := shows.ListForVenue(ctx, v.ID)
	if err != nil {
		t.Fatalf("list venue: %v", err)
	}
	if len(forVenue) != 2 || forVenue[0].ShowID != earlier.ID || forVenue[0].CounterpartyName != "Miles" {
		t.Fatalf("venue shows = %+v", forVenue)
	}
	if !forVenue[1].StartTime.Equal(testNow.Add(time.Hour)) {
		t.Fatalf("start = %s", forVenue[1].StartTime)
	}

	forArtist, _ := shows.ListForArtist(ctx, a.ID)
	if len(forArtist) != 2 || forArtist[1].CounterpartyName != "The Dome" {
		t.Fatalf("artist shows = %+v", forArtist)
	}

	all, _ := shows.ListAll(ctx)
	if len(all) != 2 || all[0].ID != later.ID || all[0].ArtistImageURL != "https://img/Miles" {
		t.Fatalf("all shows = %+v", all)
	}

	if err := shows.DeleteByID(ctx, later.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := shows.DeleteByID(ctx, later.ID); !errors.Is(err, ErrShowNotFound) {
		t.Fatalf("second delete err = %v", err)
	}
}

func TestLikeContains(t *testing.T) {
	cases := map[string]string{
		"Hall":  "%hall%",
		" a_b ": "%a!_b%",
		"50%":   "%50!%%",
		"x!y":   "%x!!y%",
	}
	for in, want := range cases {
		if got := likeContains(in); got != want {
			t.Errorf("likeContains(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSQLTimeScan(t *testing.T) {
	var st sqlTime
	if err := st.Scan([]byte("2026-05-01 12:00:00")); err != nil || !st.Equal(testNow) {
		t.Fatalf("bytes: %v %v", st.Time, err)
	}
	if err := st.Scan(testNow.In(time.FixedZone("X", 3600))); err != nil || st.Location() != time.UTC {
		t.Fatalf("time: %v %v", st.Time, err)
	}
	if err := st.Scan(42); err == nil {
		t.Fatal("expected error for int")
	}
}
