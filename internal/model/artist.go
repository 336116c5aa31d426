package model

// Artist is a performer who can be booked for shows.  City is free text
// holding the canonical city name, not a reference to cities.id.
type Artist struct {
	ID                 uint64 // artists.id
	Name               string // artists.name
	City               string // artists.city
	State              string // artists.state
	Phone              string // artists.phone
	Genres             Genres // artists.genres (comma-joined)
	ImageLink          string // artists.image_link
	FacebookLink       string // artists.facebook_link
	Website            string // artists.website
	SeekingVenue       bool   // artists.seeking_venue
	SeekingDescription string // artists.seeking_description
}
