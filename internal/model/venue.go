package model

// Venue is a place hosting shows.  CityID references cities.id; the
// city name is denormalized into CityName when the venue is loaded.
type Venue struct {
	ID                 uint64 // venues.id
	Name               string // venues.name
	Genres             Genres // venues.genres (comma-joined)
	CityID             uint64 // venues.city_id
	CityName           string // cities.name via city_id
	State              string // venues.state
	Address            string // venues.address
	Phone              string // venues.phone
	ImageLink          string // venues.image_link
	FacebookLink       string // venues.facebook_link
	Website            string // venues.website
	SeekingTalent      bool   // venues.seeking_talent
	SeekingDescription string // venues.seeking_description
}
