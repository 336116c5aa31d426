package model

// City is the normalized location venues belong to.  Cities are never
// created directly; they appear when a venue or artist names one that
// does not exist yet.
type City struct {
	ID    uint64 // cities.id
	Name  string // cities.name
	State string // cities.state
}
