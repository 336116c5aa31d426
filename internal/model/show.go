package model

import "time"

// TimeLayout is the storage format for timestamps.  Values are always UTC.
const TimeLayout = "2006-01-02 15:04:05"

// Show links one artist to one venue at a start time.  Whether a show is
// past or upcoming is decided at query time and never stored.
type Show struct {
	ID        uint64    // shows.id
	ArtistID  uint64    // shows.artist_id
	VenueID   uint64    // shows.venue_id
	StartTime time.Time // shows.start_time (UTC)
}

// Upcoming reports whether the show starts at or after now.
func (s Show) Upcoming(now time.Time) bool {
	return !s.StartTime.Before(now)
}
