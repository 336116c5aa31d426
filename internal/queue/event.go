// Package queue carries listing events over RabbitMQ: a publisher used by
// the directory service after each create, and a consumer that appends
// every event to a log file.
package queue

// Kinds of listing carried by ListingCreatedEvent.
const (
	KindVenue  = "venue"
	KindArtist = "artist"
	KindShow   = "show"
)

// ListingCreatedEvent is published when a venue, artist or show has been
// committed.  It carries enough context for downstream consumers to log
// or notify without querying the primary database.
type ListingCreatedEvent struct {
	Kind      string `json:"kind"`
	ID        uint64 `json:"id"`
	Name      string `json:"name,omitempty"`
	City      string `json:"city,omitempty"`
	State     string `json:"state,omitempty"`
	ArtistID  uint64 `json:"artist_id,omitempty"`
	VenueID   uint64 `json:"venue_id,omitempty"`
	StartTime string `json:"start_time,omitempty"`
	CreatedAt string `json:"created_at"`
}
