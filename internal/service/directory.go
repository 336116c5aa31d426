// Package service assembles the directory's views from the repositories
// and runs every mutation inside a single transaction.
package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/iliyamo/venue-booking/internal/database"
	"github.com/iliyamo/venue-booking/internal/model"
	"github.com/iliyamo/venue-booking/internal/queue"
	"github.com/iliyamo/venue-booking/internal/repository"
)

var (
	// ErrCreateFailed is returned when a create could not be committed.
	// Nothing was written.
	ErrCreateFailed = errors.New("create failed")
	// ErrUpdateFailed is returned when an update could not be committed.
	ErrUpdateFailed = errors.New("update failed")
)

// Publisher receives listing events after a create commits.
type Publisher interface {
	PublishListingCreated(ctx context.Context, ev queue.ListingCreatedEvent) error
}

const publishTimeout = 10 * time.Second

// Directory owns the store and exposes the booking directory operations.
type Directory struct {
	db      *sql.DB
	cities  *repository.CityRepo
	venues  *repository.VenueRepo
	artists *repository.ArtistRepo
	shows   *repository.ShowRepo

	pub     Publisher
	pending sync.WaitGroup
	now     func() time.Time
	log     zerolog.Logger
}

// Option customizes a Directory.
type Option func(*Directory)

// WithPublisher sends listing events to p after each successful create.
func WithPublisher(p Publisher) Option {
	return func(d *Directory) { d.pub = p }
}

// WithClock replaces time.Now as the source of "now" for past/upcoming splits.
func WithClock(now func() time.Time) Option {
	return func(d *Directory) { d.now = now }
}

// NewDirectory builds a Directory over db.
func NewDirectory(db *sql.DB, log zerolog.Logger, opts ...Option) *Directory {
	d := &Directory{
		db:      db,
		cities:  repository.NewCityRepo(db),
		venues:  repository.NewVenueRepo(db),
		artists: repository.NewArtistRepo(db),
		shows:   repository.NewShowRepo(db),
		now:     time.Now,
		log:     log.With().Str("component", "directory").Logger(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Wait blocks until in-flight event publishes finish.
func (d *Directory) Wait() {
	d.pending.Wait()
}

// Now returns the directory's current instant in UTC, truncated to the
// second so it compares with stored start times the same way in SQL and Go.
func (d *Directory) Now() time.Time {
	return d.now().UTC().Truncate(time.Second)
}

// ListVenuesByCity groups every venue under its city, ordered by city name.
// Cities without venues are left out.
func (d *Directory) ListVenuesByCity(ctx context.Context) ([]CityArea, error) {
	rows, err := d.venues.ListGroupedByCity(ctx, d.Now())
	if err != nil {
		return nil, err
	}
	areas := []CityArea{}
	var lastCity uint64
	for _, r := range rows {
		if len(areas) == 0 || r.CityID != lastCity {
			areas = append(areas, CityArea{City: r.CityName, State: r.CityState})
			lastCity = r.CityID
		}
		a := &areas[len(areas)-1]
		a.Venues = append(a.Venues, Summary{ID: r.VenueID, Name: r.VenueName, NumUpcomingShows: r.UpcomingShows})
	}
	return areas, nil
}

// SearchVenues finds venues whose name contains term, ignoring case.
func (d *Directory) SearchVenues(ctx context.Context, term string) (SearchResult, error) {
	rows, err := d.venues.SearchByName(ctx, term, d.Now())
	if err != nil {
		return SearchResult{}, err
	}
	return toSearchResult(rows), nil
}

// SearchArtists finds artists whose name contains term, ignoring case.
func (d *Directory) SearchArtists(ctx context.Context, term string) (SearchResult, error) {
	rows, err := d.artists.SearchByName(ctx, term, d.Now())
	if err != nil {
		return SearchResult{}, err
	}
	return toSearchResult(rows), nil
}

func toSearchResult(rows []repository.Summary) SearchResult {
	data := toSummaries(rows)
	return SearchResult{Count: len(data), Data: data}
}

func toSummaries(rows []repository.Summary) []Summary {
	out := make([]Summary, len(rows))
	for i, r := range rows {
		out[i] = Summary{ID: r.ID, Name: r.Name, NumUpcomingShows: r.UpcomingShows}
	}
	return out
}

// ListArtists returns all artists ordered by name.
func (d *Directory) ListArtists(ctx context.Context) ([]Summary, error) {
	rows, err := d.artists.ListWithUpcoming(ctx, d.Now())
	if err != nil {
		return nil, err
	}
	return toSummaries(rows), nil
}

// GetVenueDetail returns the venue page with its shows split at the
// current instant.  repository.ErrVenueNotFound is returned for unknown ids.
func (d *Directory) GetVenueDetail(ctx context.Context, id uint64) (*VenueDetail, error) {
	now := d.Now()
	v, err := d.venues.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	rows, err := d.shows.ListForVenue(ctx, id)
	if err != nil {
		return nil, err
	}
	out := &VenueDetail{
		ID:                 v.ID,
		Name:               v.Name,
		Genres:             v.Genres.Strings(),
		Address:            v.Address,
		City:               v.CityName,
		State:              v.State,
		Phone:              v.Phone,
		Website:            v.Website,
		FacebookLink:       v.FacebookLink,
		SeekingTalent:      v.SeekingTalent,
		SeekingDescription: v.SeekingDescription,
		ImageLink:          v.ImageLink,
		PastShows:          []VenueShow{},
		UpcomingShows:      []VenueShow{},
	}
	for _, r := range rows {
		s := VenueShow{ArtistID: r.CounterpartyID, ArtistName: r.CounterpartyName, ArtistImageLink: r.CounterpartyImage, StartTime: formatTime(r.StartTime)}
		if (model.Show{StartTime: r.StartTime}).Upcoming(now) {
			out.UpcomingShows = append(out.UpcomingShows, s)
		} else {
			out.PastShows = append(out.PastShows, s)
		}
	}
	out.PastShowsCount = len(out.PastShows)
	out.UpcomingShowsCount = len(out.UpcomingShows)
	return out, nil
}

// GetArtistDetail returns the artist page with its shows split at the
// current instant.  repository.ErrArtistNotFound is returned for unknown ids.
func (d *Directory) GetArtistDetail(ctx context.Context, id uint64) (*ArtistDetail, error) {
	now := d.Now()
	a, err := d.artists.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	rows, err := d.shows.ListForArtist(ctx, id)
	if err != nil {
		return nil, err
	}
	out := &ArtistDetail{
		ID:                 a.ID,
		Name:               a.Name,
		Genres:             a.Genres.Strings(),
		City:               a.City,
		State:              a.State,
		Phone:              a.Phone,
		Website:            a.Website,
		FacebookLink:       a.FacebookLink,
		SeekingVenue:       a.SeekingVenue,
		SeekingDescription: a.SeekingDescription,
		ImageLink:          a.ImageLink,
		PastShows:          []ArtistShow{},
		UpcomingShows:      []ArtistShow{},
	}
	for _, r := range rows {
		s := ArtistShow{VenueID: r.CounterpartyID, VenueName: r.CounterpartyName, VenueImageLink: r.CounterpartyImage, StartTime: formatTime(r.StartTime)}
		if (model.Show{StartTime: r.StartTime}).Upcoming(now) {
			out.UpcomingShows = append(out.UpcomingShows, s)
		} else {
			out.PastShows = append(out.PastShows, s)
		}
	}
	out.PastShowsCount = len(out.PastShows)
	out.UpcomingShowsCount = len(out.UpcomingShows)
	return out, nil
}

// GetVenue returns the stored venue, for pre-filling the edit form.
func (d *Directory) GetVenue(ctx context.Context, id uint64) (*model.Venue, error) {
	return d.venues.GetByID(ctx, id)
}

// GetArtist returns the stored artist, for pre-filling the edit form.
func (d *Directory) GetArtist(ctx context.Context, id uint64) (*model.Artist, error) {
	return d.artists.GetByID(ctx, id)
}

// ListShows returns every show ordered by id.
func (d *Directory) ListShows(ctx context.Context) ([]ShowListing, error) {
	rows, err := d.shows.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ShowListing, len(rows))
	for i, r := range rows {
		out[i] = ShowListing{
			ID:              r.ID,
			VenueID:         r.VenueID,
			VenueName:       r.VenueName,
			ArtistID:        r.ArtistID,
			ArtistName:      r.ArtistName,
			ArtistImageLink: r.ArtistImageURL,
			StartTime:       formatTime(r.StartTime),
		}
	}
	return out, nil
}

// ShowFormChoices lists the artists and venues a show can reference.
func (d *Directory) ShowFormChoices(ctx context.Context) (FormChoices, error) {
	artists, err := d.artists.ListOptions(ctx)
	if err != nil {
		return FormChoices{}, err
	}
	venues, err := d.venues.ListOptions(ctx)
	if err != nil {
		return FormChoices{}, err
	}
	return FormChoices{Artists: toChoices(artists), Venues: toChoices(venues)}, nil
}

func toChoices(rows []repository.Summary) []Choice {
	out := make([]Choice, len(rows))
	for i, r := range rows {
		out[i] = Choice{ID: r.ID, Name: r.Name}
	}
	return out
}

// CreateVenue resolves the city and inserts the venue in one transaction.
// Any failure rolls both back and is reported as ErrCreateFailed.
func (d *Directory) CreateVenue(ctx context.Context, in VenueInput) (*model.Venue, error) {
	v := venueFromInput(in)
	err := database.WithTx(ctx, d.db, func(tx *sql.Tx) error {
		city, _, err := d.cities.ResolveTx(ctx, tx, in.City, in.State)
		if err != nil {
			return err
		}
		v.CityID, v.CityName = city.ID, city.Name
		return d.venues.CreateTx(ctx, tx, v)
	})
	if err != nil {
		d.log.Error().Err(err).Str("venue", in.Name).Msg("create venue")
		return nil, fmt.Errorf("%w: %w", ErrCreateFailed, err)
	}
	d.publish(ctx, queue.ListingCreatedEvent{Kind: queue.KindVenue, ID: v.ID, Name: v.Name, City: v.CityName, State: v.State})
	return v, nil
}

// UpdateVenue overwrites the venue with in.  Unknown ids yield
// repository.ErrVenueNotFound and roll back any city resolved on the way;
// other failures ErrUpdateFailed.
func (d *Directory) UpdateVenue(ctx context.Context, id uint64, in VenueInput) (*model.Venue, error) {
	v := venueFromInput(in)
	v.ID = id
	err := database.WithTx(ctx, d.db, func(tx *sql.Tx) error {
		city, _, err := d.cities.ResolveTx(ctx, tx, in.City, in.State)
		if err != nil {
			return err
		}
		v.CityID, v.CityName = city.ID, city.Name
		return d.venues.UpdateTx(ctx, tx, v)
	})
	if errors.Is(err, repository.ErrVenueNotFound) {
		return nil, err
	}
	if err != nil {
		d.log.Error().Err(err).Uint64("venue_id", id).Msg("update venue")
		return nil, fmt.Errorf("%w: %w", ErrUpdateFailed, err)
	}
	return v, nil
}

// DeleteVenue removes the venue and its shows.
func (d *Directory) DeleteVenue(ctx context.Context, id uint64) error {
	return d.venues.DeleteCascade(ctx, id)
}

// CreateArtist resolves the city to its canonical name and inserts the
// artist in one transaction.
func (d *Directory) CreateArtist(ctx context.Context, in ArtistInput) (*model.Artist, error) {
	a := artistFromInput(in)
	err := database.WithTx(ctx, d.db, func(tx *sql.Tx) error {
		city, _, err := d.cities.ResolveTx(ctx, tx, in.City, in.State)
		if err != nil {
			return err
		}
		a.City = city.Name
		return d.artists.CreateTx(ctx, tx, a)
	})
	if err != nil {
		d.log.Error().Err(err).Str("artist", in.Name).Msg("create artist")
		return nil, fmt.Errorf("%w: %w", ErrCreateFailed, err)
	}
	d.publish(ctx, queue.ListingCreatedEvent{Kind: queue.KindArtist, ID: a.ID, Name: a.Name, City: a.City, State: a.State})
	return a, nil
}

// UpdateArtist overwrites the artist with in.  Unknown ids yield
// repository.ErrArtistNotFound; other failures ErrUpdateFailed.
func (d *Directory) UpdateArtist(ctx context.Context, id uint64, in ArtistInput) (*model.Artist, error) {
	a := artistFromInput(in)
	a.ID = id
	err := database.WithTx(ctx, d.db, func(tx *sql.Tx) error {
		city, _, err := d.cities.ResolveTx(ctx, tx, in.City, in.State)
		if err != nil {
			return err
		}
		a.City = city.Name
		return d.artists.UpdateTx(ctx, tx, a)
	})
	if errors.Is(err, repository.ErrArtistNotFound) {
		return nil, err
	}
	if err != nil {
		d.log.Error().Err(err).Uint64("artist_id", id).Msg("update artist")
		return nil, fmt.Errorf("%w: %w", ErrUpdateFailed, err)
	}
	return a, nil
}

// CreateShow books an artist at a venue.  Both must exist.
func (d *Directory) CreateShow(ctx context.Context, in ShowInput) (*model.Show, error) {
	s := &model.Show{ArtistID: in.ArtistID, VenueID: in.VenueID, StartTime: in.StartTime.UTC()}
	err := database.WithTx(ctx, d.db, func(tx *sql.Tx) error {
		ok, err := d.artists.ExistsTx(ctx, tx, in.ArtistID)
		if err != nil {
			return err
		}
		if !ok {
			return repository.ErrArtistNotFound
		}
		if ok, err = d.venues.ExistsTx(ctx, tx, in.VenueID); err != nil {
			return err
		}
		if !ok {
			return repository.ErrVenueNotFound
		}
		return d.shows.CreateTx(ctx, tx, s)
	})
	if err != nil {
		d.log.Error().Err(err).Uint64("artist_id", in.ArtistID).Uint64("venue_id", in.VenueID).Msg("create show")
		return nil, fmt.Errorf("%w: %w", ErrCreateFailed, err)
	}
	d.publish(ctx, queue.ListingCreatedEvent{Kind: queue.KindShow, ID: s.ID, ArtistID: s.ArtistID, VenueID: s.VenueID, StartTime: formatTime(s.StartTime)})
	return s, nil
}

// DeleteShow removes a single show.
func (d *Directory) DeleteShow(ctx context.Context, id uint64) error {
	return d.shows.DeleteByID(ctx, id)
}

// publish sends ev in the background.  Failures are logged by the
// publisher and never reach the caller.
func (d *Directory) publish(ctx context.Context, ev queue.ListingCreatedEvent) {
	if d.pub == nil {
		return
	}
	ev.CreatedAt = formatTime(d.Now())
	d.pending.Add(1)
	go func() {
		defer d.pending.Done()
		pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
		defer cancel()
		if err := d.pub.PublishListingCreated(pctx, ev); err != nil {
			d.log.Warn().Err(err).Str("kind", ev.Kind).Uint64("id", ev.ID).Msg("listing event not published")
		}
	}()
}

func venueFromInput(in VenueInput) *model.Venue {
	return &model.Venue{
		Name:               strings.TrimSpace(in.Name),
		Genres:             in.Genres,
		State:              in.State,
		Address:            strings.TrimSpace(in.Address),
		Phone:              strings.TrimSpace(in.Phone),
		ImageLink:          in.ImageLink,
		FacebookLink:       in.FacebookLink,
		Website:            in.Website,
		SeekingTalent:      in.SeekingTalent,
		SeekingDescription: in.SeekingDescription,
	}
}

func artistFromInput(in ArtistInput) *model.Artist {
	return &model.Artist{
		Name:               strings.TrimSpace(in.Name),
		State:              in.State,
		Phone:              strings.TrimSpace(in.Phone),
		Genres:             in.Genres,
		ImageLink:          in.ImageLink,
		FacebookLink:       in.FacebookLink,
		Website:            in.Website,
		SeekingVenue:       in.SeekingVenue,
		SeekingDescription: in.SeekingDescription,
	}
}
