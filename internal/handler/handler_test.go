package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/venue-booking/internal/database"
	"github.com/iliyamo/venue-booking/internal/handler"
	"github.com/iliyamo/venue-booking/internal/router"
	"github.com/iliyamo/venue-booking/internal/service"
)

var fixedNow = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

type countingCache struct{ calls int }

func (c *countingCache) Invalidate(context.Context) error {
	c.calls++
	return nil
}

type testServer struct {
	e     *echo.Echo
	dir   *service.Directory
	cache *countingCache
}

func newServer(t *testing.T) *testServer {
	t.Helper()
	db, err := database.Open(database.Options{Driver: database.DriverSQLite, Path: filepath.Join(t.TempDir(), "http.db")})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := database.Migrate(context.Background(), db, database.DriverSQLite); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	dir := service.NewDirectory(db, zerolog.Nop(), service.WithClock(func() time.Time { return fixedNow }))
	cache := &countingCache{}
	e := echo.New()
	e.HTTPErrorHandler = handler.ErrorHandler(zerolog.Nop())
	router.RegisterRoutes(e, handler.NewDirectoryHandler(dir, cache, zerolog.Nop()), router.Middlewares{})
	return &testServer{e: e, dir: dir, cache: cache}
}

func (s *testServer) do(t *testing.T, method, target string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
}

func venueForm(name, city string) url.Values {
	return url.Values{
		"name":           {name},
		"city":           {city},
		"state":          {"MA"},
		"address":        {"1 Main St"},
		"phone":          {"617-555-0100"},
		"genres":         {"Jazz", "Blues"},
		"website":        {"https://example.com"},
		"seeking_talent": {"y"},
	}
}

func flashCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == "flash" {
			return c
		}
	}
	return nil
}

func TestHealth(t *testing.T) {
	s := newServer(t)
	rec := s.do(t, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Fatalf("health = %d %q", rec.Code, rec.Body.String())
	}
}

func TestCreateVenueRedirectsWithFlash(t *testing.T) {
	s := newServer(t)
	rec := s.do(t, http.MethodPost, "/venues/create", venueForm("The Dome", "Boston"))
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/" {
		t.Fatalf("create = %d -> %q: %s", rec.Code, rec.Header().Get("Location"), rec.Body.String())
	}
	if s.cache.calls != 1 {
		t.Fatalf("cache invalidations = %d, want 1", s.cache.calls)
	}
	ck := flashCookie(rec)
	if ck == nil {
		t.Fatal("no flash cookie set")
	}

	landing := s.do(t, http.MethodGet, "/", nil, ck)
	var body struct {
		Flashes []string `json:"flashes"`
	}
	decode(t, landing, &body)
	if len(body.Flashes) != 1 || body.Flashes[0] != "Venue The Dome was successfully listed!" {
		t.Fatalf("flashes = %v", body.Flashes)
	}
	if cleared := flashCookie(landing); cleared == nil || cleared.MaxAge >= 0 {
		t.Fatalf("flash cookie not expired: %+v", cleared)
	}

	var list struct {
		Areas []service.CityArea `json:"areas"`
	}
	decode(t, s.do(t, http.MethodGet, "/venues", nil), &list)
	if len(list.Areas) != 1 || list.Areas[0].City != "Boston" || list.Areas[0].Venues[0].Name != "The Dome" {
		t.Fatalf("areas = %+v", list.Areas)
	}
}

func TestCreateVenueValidationErrors(t *testing.T) {
	s := newServer(t)
	f := venueForm("", "Boston")
	f.Set("state", "XX")
	f.Set("facebook_link", "nope")
	rec := s.do(t, http.MethodPost, "/venues/create", f)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var body struct {
		Errors map[string]string `json:"errors"`
	}
	decode(t, rec, &body)
	for _, field := range []string{"name", "state", "facebook_link"} {
		if body.Errors[field] == "" {
			t.Errorf("missing error for %s: %v", field, body.Errors)
		}
	}
	if s.cache.calls != 0 {
		t.Fatal("invalid submission invalidated the cache")
	}
}

func TestVenueDetailAndNullForMissing(t *testing.T) {
	s := newServer(t)
	ctx := context.Background()
	v, err := s.dir.CreateVenue(ctx, service.VenueInput{Name: "The Dome", City: "Boston", State: "MA"})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	a, _ := s.dir.CreateArtist(ctx, service.ArtistInput{Name: "Miles", City: "Boston", State: "MA"})
	_, _ = s.dir.CreateShow(ctx, service.ShowInput{ArtistID: a.ID, VenueID: v.ID, StartTime: fixedNow.Add(-time.Hour)})
	_, _ = s.dir.CreateShow(ctx, service.ShowInput{ArtistID: a.ID, VenueID: v.ID, StartTime: fixedNow.Add(time.Hour)})

	var body struct {
		Venue *service.VenueDetail `json:"venue"`
	}
	decode(t, s.do(t, http.MethodGet, "/venues/1", nil), &body)
	if body.Venue == nil || body.Venue.PastShowsCount != 1 || body.Venue.UpcomingShowsCount != 1 {
		t.Fatalf("venue = %+v", body.Venue)
	}

	rec := s.do(t, http.MethodGet, "/venues/99", nil)
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != `{"venue":null}` {
		t.Fatalf("missing venue = %d %s", rec.Code, rec.Body.String())
	}
	if rec := s.do(t, http.MethodGet, "/venues/abc", nil); rec.Code != http.StatusNotFound {
		t.Fatalf("bad id status = %d", rec.Code)
	}
}

func TestSearchVenues(t *testing.T) {
	s := newServer(t)
	ctx := context.Background()
	for _, name := range []string{"Music Hall", "The Dome", "hallway"} {
		if _, err := s.dir.CreateVenue(ctx, service.VenueInput{Name: name, City: "Boston", State: "MA"}); err != nil {
			t.Fatalf("seed %s: %v", name, err)
		}
	}
	var body struct {
		Results service.SearchResult `json:"results"`
	}
	decode(t, s.do(t, http.MethodPost, "/venues/search", url.Values{"search_term": {"HALL"}}), &body)
	if body.Results.Count != 2 || len(body.Results.Data) != 2 {
		t.Fatalf("results = %+v", body.Results)
	}
}

func TestEditVenueFlow(t *testing.T) {
	s := newServer(t)
	ctx := context.Background()
	v, _ := s.dir.CreateVenue(ctx, service.VenueInput{Name: "The Dome", City: "Boston", State: "MA"})

	rec := s.do(t, http.MethodGet, "/venues/1/edit", nil)
	var edit struct {
		Form struct {
			City string `json:"city"`
		} `json:"form"`
	}
	decode(t, rec, &edit)
	if edit.Form.City != "Boston" {
		t.Fatalf("prefill = %s", rec.Body.String())
	}

	rec = s.do(t, http.MethodPost, "/venues/1/edit", venueForm("The Big Dome", "boston"))
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/venues/1" {
		t.Fatalf("edit = %d -> %q", rec.Code, rec.Header().Get("Location"))
	}
	got, _ := s.dir.GetVenue(ctx, v.ID)
	if got.Name != "The Big Dome" || got.CityID != v.CityID {
		t.Fatalf("venue = %+v", got)
	}

	rec = s.do(t, http.MethodPost, "/venues/42/edit", venueForm("Ghost", "Boston"))
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/venues/42" {
		t.Fatalf("edit missing = %d -> %q", rec.Code, rec.Header().Get("Location"))
	}
}

func TestDeleteVenueJSON(t *testing.T) {
	s := newServer(t)
	v, _ := s.dir.CreateVenue(context.Background(), service.VenueInput{Name: "The Dome", City: "Boston", State: "MA"})

	rec := s.do(t, http.MethodDelete, "/venues/1", nil)
	var body struct {
		Success bool   `json:"success"`
		Deleted uint64 `json:"deleted"`
	}
	decode(t, rec, &body)
	if rec.Code != http.StatusOK || !body.Success || body.Deleted != v.ID {
		t.Fatalf("delete = %d %+v", rec.Code, body)
	}

	rec = s.do(t, http.MethodDelete, "/venues/1", nil)
	if rec.Code != http.StatusNotFound || strings.TrimSpace(rec.Body.String()) != `{"success":false}` {
		t.Fatalf("repeat delete = %d %s", rec.Code, rec.Body.String())
	}
	if s.cache.calls != 1 {
		t.Fatalf("cache invalidations = %d, want 1", s.cache.calls)
	}
}

func TestArtistAndShowFlow(t *testing.T) {
	s := newServer(t)
	v, _ := s.dir.CreateVenue(context.Background(), service.VenueInput{Name: "The Dome", City: "Boston", State: "MA"})

	artist := url.Values{"name": {"Miles"}, "city": {"BOSTON"}, "state": {"MA"}, "genres": {"Jazz"}}
	rec := s.do(t, http.MethodPost, "/artists/create", artist)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("create artist = %d %s", rec.Code, rec.Body.String())
	}

	artist.Set("name", "Miles Davis")
	rec = s.do(t, http.MethodPost, "/artists/1/edit", artist)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/artists" {
		t.Fatalf("edit artist = %d -> %q", rec.Code, rec.Header().Get("Location"))
	}

	var choices struct {
		Choices service.FormChoices `json:"choices"`
	}
	decode(t, s.do(t, http.MethodGet, "/shows/create", nil), &choices)
	if len(choices.Choices.Artists) != 1 || len(choices.Choices.Venues) != 1 {
		t.Fatalf("choices = %+v", choices.Choices)
	}

	show := url.Values{"artist_id": {"1"}, "venue_id": {"1"}, "start_time": {"2026-06-01T20:00"}}
	rec = s.do(t, http.MethodPost, "/shows/create", show)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/" {
		t.Fatalf("create show = %d -> %q", rec.Code, rec.Header().Get("Location"))
	}

	show.Set("artist_id", "7")
	rec = s.do(t, http.MethodPost, "/shows/create", show)
	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/shows/create" || flashCookie(rec) == nil {
		t.Fatalf("failed show = %d -> %q", rec.Code, rec.Header().Get("Location"))
	}

	var shows struct {
		Shows []service.ShowListing `json:"shows"`
	}
	decode(t, s.do(t, http.MethodGet, "/shows", nil), &shows)
	if len(shows.Shows) != 1 || shows.Shows[0].ArtistName != "Miles Davis" || shows.Shows[0].VenueID != v.ID {
		t.Fatalf("shows = %+v", shows.Shows)
	}

	var detail struct {
		Artist *service.ArtistDetail `json:"artist"`
	}
	decode(t, s.do(t, http.MethodGet, "/artists/1", nil), &detail)
	if detail.Artist == nil || detail.Artist.City != "Boston" || detail.Artist.UpcomingShowsCount != 1 {
		t.Fatalf("artist = %+v", detail.Artist)
	}

	rec = s.do(t, http.MethodDelete, "/shows/1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("delete show = %d %s", rec.Code, rec.Body.String())
	}
}

func TestUnknownRouteIsJSON404(t *testing.T) {
	s := newServer(t)
	rec := s.do(t, http.MethodGet, "/nowhere", nil)
	if rec.Code != http.StatusNotFound || !strings.Contains(rec.Body.String(), `"error"`) {
		t.Fatalf("404 = %d %s", rec.Code, rec.Body.String())
	}
}
