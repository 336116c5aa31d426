package form

import (
	"strings"

	"github.com/iliyamo/venue-booking/internal/model"
	"github.com/iliyamo/venue-booking/internal/service"
)

// VenueForm is the venue create/edit submission.
type VenueForm struct {
	Name               string   `form:"name" json:"name" validate:"required,max=120"`
	City               string   `form:"city" json:"city" validate:"required,max=120"`
	State              string   `form:"state" json:"state" validate:"required,state"`
	Address            string   `form:"address" json:"address" validate:"required,max=120"`
	Phone              string   `form:"phone" json:"phone" validate:"omitempty,phone"`
	ImageLink          string   `form:"image_link" json:"image_link" validate:"omitempty,url,max=500"`
	Genres             []string `form:"genres" json:"genres" validate:"required,min=1,dive,genre"`
	FacebookLink       string   `form:"facebook_link" json:"facebook_link" validate:"omitempty,url,max=120"`
	Website            string   `form:"website" json:"website" validate:"omitempty,url,max=120"`
	SeekingTalent      string   `form:"seeking_talent" json:"seeking_talent"`
	SeekingDescription string   `form:"seeking_description" json:"seeking_description" validate:"max=500"`
}

// Input converts a validated form.
func (f VenueForm) Input() (service.VenueInput, error) {
	genres, err := model.ParseGenres(f.Genres)
	if err != nil {
		return service.VenueInput{}, FieldErrors{"genres": messages["genre"]}
	}
	return service.VenueInput{
		Name:               strings.TrimSpace(f.Name),
		City:               strings.TrimSpace(f.City),
		State:              f.State,
		Address:            strings.TrimSpace(f.Address),
		Phone:              strings.TrimSpace(f.Phone),
		Genres:             genres,
		ImageLink:          strings.TrimSpace(f.ImageLink),
		FacebookLink:       strings.TrimSpace(f.FacebookLink),
		Website:            strings.TrimSpace(f.Website),
		SeekingTalent:      checked(f.SeekingTalent),
		SeekingDescription: strings.TrimSpace(f.SeekingDescription),
	}, nil
}

// VenueFormFrom pre-fills the edit form with a stored venue.
func VenueFormFrom(v *model.Venue) VenueForm {
	return VenueForm{
		Name:               v.Name,
		City:               v.CityName,
		State:              v.State,
		Address:            v.Address,
		Phone:              v.Phone,
		ImageLink:          v.ImageLink,
		Genres:             v.Genres.Strings(),
		FacebookLink:       v.FacebookLink,
		Website:            v.Website,
		SeekingTalent:      checkbox(v.SeekingTalent),
		SeekingDescription: v.SeekingDescription,
	}
}

// ArtistForm is the artist create/edit submission.
type ArtistForm struct {
	Name               string   `form:"name" json:"name" validate:"required,max=120"`
	City               string   `form:"city" json:"city" validate:"required,max=120"`
	State              string   `form:"state" json:"state" validate:"required,state"`
	Phone              string   `form:"phone" json:"phone" validate:"omitempty,phone"`
	ImageLink          string   `form:"image_link" json:"image_link" validate:"omitempty,url,max=500"`
	Genres             []string `form:"genres" json:"genres" validate:"required,min=1,dive,genre"`
	FacebookLink       string   `form:"facebook_link" json:"facebook_link" validate:"omitempty,url,max=120"`
	Website            string   `form:"website" json:"website" validate:"omitempty,url,max=120"`
	SeekingVenue       string   `form:"seeking_venue" json:"seeking_venue"`
	SeekingDescription string   `form:"seeking_description" json:"seeking_description" validate:"max=500"`
}

// Input converts a validated form.
func (f ArtistForm) Input() (service.ArtistInput, error) {
	genres, err := model.ParseGenres(f.Genres)
	if err != nil {
		return service.ArtistInput{}, FieldErrors{"genres": messages["genre"]}
	}
	return service.ArtistInput{
		Name:               strings.TrimSpace(f.Name),
		City:               strings.TrimSpace(f.City),
		State:              f.State,
		Phone:              strings.TrimSpace(f.Phone),
		Genres:             genres,
		ImageLink:          strings.TrimSpace(f.ImageLink),
		FacebookLink:       strings.TrimSpace(f.FacebookLink),
		Website:            strings.TrimSpace(f.Website),
		SeekingVenue:       checked(f.SeekingVenue),
		SeekingDescription: strings.TrimSpace(f.SeekingDescription),
	}, nil
}

// ArtistFormFrom pre-fills the edit form with a stored artist.
func ArtistFormFrom(a *model.Artist) ArtistForm {
	return ArtistForm{
		Name:               a.Name,
		City:               a.City,
		State:              a.State,
		Phone:              a.Phone,
		ImageLink:          a.ImageLink,
		Genres:             a.Genres.Strings(),
		FacebookLink:       a.FacebookLink,
		Website:            a.Website,
		SeekingVenue:       checkbox(a.SeekingVenue),
		SeekingDescription: a.SeekingDescription,
	}
}

// ShowForm books an artist at a venue.
type ShowForm struct {
	ArtistID  uint64 `form:"artist_id" json:"artist_id" validate:"gt=0"`
	VenueID   uint64 `form:"venue_id" json:"venue_id" validate:"gt=0"`
	StartTime string `form:"start_time" json:"start_time" validate:"required,starttime"`
}

// Input converts a validated form.
func (f ShowForm) Input() (service.ShowInput, error) {
	start, err := ParseStartTime(f.StartTime)
	if err != nil {
		return service.ShowInput{}, FieldErrors{"start_time": messages["starttime"]}
	}
	return service.ShowInput{ArtistID: f.ArtistID, VenueID: f.VenueID, StartTime: start}, nil
}

// SearchForm carries the search box.  An empty term matches everything.
type SearchForm struct {
	SearchTerm string `form:"search_term" json:"search_term" validate:"max=120"`
}
