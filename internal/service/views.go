package service

import (
	"time"

	"github.com/iliyamo/venue-booking/internal/model"
)

// Summary is a venue or artist in list and search results.
type Summary struct {
	ID               uint64 `json:"id"`
	Name             string `json:"name"`
	NumUpcomingShows int    `json:"num_upcoming_shows"`
}

// CityArea groups the venues of one city.
type CityArea struct {
	City   string    `json:"city"`
	State  string    `json:"state"`
	Venues []Summary `json:"venues"`
}

// SearchResult is the answer to a name search.  Count always equals len(Data).
type SearchResult struct {
	Count int       `json:"count"`
	Data  []Summary `json:"data"`
}

// VenueShow is a show on a venue page, described by its artist.
type VenueShow struct {
	ArtistID        uint64 `json:"artist_id"`
	ArtistName      string `json:"artist_name"`
	ArtistImageLink string `json:"artist_image_link"`
	StartTime       string `json:"start_time"`
}

// ArtistShow is a show on an artist page, described by its venue.
type ArtistShow struct {
	VenueID        uint64 `json:"venue_id"`
	VenueName      string `json:"venue_name"`
	VenueImageLink string `json:"venue_image_link"`
	StartTime      string `json:"start_time"`
}

// VenueDetail is the full venue page.
type VenueDetail struct {
	ID                 uint64      `json:"id"`
	Name               string      `json:"name"`
	Genres             []string    `json:"genres"`
	Address            string      `json:"address"`
	City               string      `json:"city"`
	State              string      `json:"state"`
	Phone              string      `json:"phone"`
	Website            string      `json:"website"`
	FacebookLink       string      `json:"facebook_link"`
	SeekingTalent      bool        `json:"seeking_talent"`
	SeekingDescription string      `json:"seeking_description"`
	ImageLink          string      `json:"image_link"`
	PastShows          []VenueShow `json:"past_shows"`
	UpcomingShows      []VenueShow `json:"upcoming_shows"`
	PastShowsCount     int         `json:"past_shows_count"`
	UpcomingShowsCount int         `json:"upcoming_shows_count"`
}

// ArtistDetail is the full artist page.
type ArtistDetail struct {
	ID                 uint64       `json:"id"`
	Name               string       `json:"name"`
	Genres             []string     `json:"genres"`
	City               string       `json:"city"`
	State              string       `json:"state"`
	Phone              string       `json:"phone"`
	Website            string       `json:"website"`
	FacebookLink       string       `json:"facebook_link"`
	SeekingVenue       bool         `json:"seeking_venue"`
	SeekingDescription string       `json:"seeking_description"`
	ImageLink          string       `json:"image_link"`
	PastShows          []ArtistShow `json:"past_shows"`
	UpcomingShows      []ArtistShow `json:"upcoming_shows"`
	PastShowsCount     int          `json:"past_shows_count"`
	UpcomingShowsCount int          `json:"upcoming_shows_count"`
}

// ShowListing is one row of the show index.
type ShowListing struct {
	ID              uint64 `json:"id"`
	VenueID         uint64 `json:"venue_id"`
	VenueName       string `json:"venue_name"`
	ArtistID        uint64 `json:"artist_id"`
	ArtistName      string `json:"artist_name"`
	ArtistImageLink string `json:"artist_image_link"`
	StartTime       string `json:"start_time"`
}

// Choice is an id/name pair for a select input.
type Choice struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// FormChoices lists what the show form can reference.
type FormChoices struct {
	Artists []Choice `json:"artists"`
	Venues  []Choice `json:"venues"`
}

// VenueInput is a validated venue submission.
type VenueInput struct {
	Name               string
	City               string
	State              string
	Address            string
	Phone              string
	Genres             model.Genres
	ImageLink          string
	FacebookLink       string
	Website            string
	SeekingTalent      bool
	SeekingDescription string
}

// ArtistInput is a validated artist submission.
type ArtistInput struct {
	Name               string
	City               string
	State              string
	Phone              string
	Genres             model.Genres
	ImageLink          string
	FacebookLink       string
	Website            string
	SeekingVenue       bool
	SeekingDescription string
}

// ShowInput is a validated show submission.
type ShowInput struct {
	ArtistID  uint64
	VenueID   uint64
	StartTime time.Time
}

func formatTime(t time.Time) string {
	return t.UTC().Format(model.TimeLayout)
}
