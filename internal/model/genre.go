package model

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// Genre is a music genre a venue hosts or an artist performs.
type Genre string

const (
	GenreAlternative    Genre = "Alternative"
	GenreBlues          Genre = "Blues"
	GenreClassical      Genre = "Classical"
	GenreCountry        Genre = "Country"
	GenreElectronic     Genre = "Electronic"
	GenreFolk           Genre = "Folk"
	GenreFunk           Genre = "Funk"
	GenreHipHop         Genre = "Hip-Hop"
	GenreHeavyMetal     Genre = "Heavy Metal"
	GenreInstrumental   Genre = "Instrumental"
	GenreJazz           Genre = "Jazz"
	GenreMusicalTheatre Genre = "Musical Theatre"
	GenrePop            Genre = "Pop"
	GenrePunk           Genre = "Punk"
	GenreRnB            Genre = "R&B"
	GenreReggae         Genre = "Reggae"
	GenreRockNRoll      Genre = "Rock n Roll"
	GenreSoul           Genre = "Soul"
	GenreOther          Genre = "Other"
)

// AllGenres lists the genres in the order forms present them.
var AllGenres = []Genre{
	GenreAlternative, GenreBlues, GenreClassical, GenreCountry, GenreElectronic,
	GenreFolk, GenreFunk, GenreHipHop, GenreHeavyMetal, GenreInstrumental,
	GenreJazz, GenreMusicalTheatre, GenrePop, GenrePunk, GenreRnB,
	GenreReggae, GenreRockNRoll, GenreSoul, GenreOther,
}

var genreByFold = func() map[string]Genre {
	m := make(map[string]Genre, len(AllGenres))
	for _, g := range AllGenres {
		m[strings.ToLower(string(g))] = g
	}
	return m
}()

// ParseGenre matches s against the known genres ignoring case.
func ParseGenre(s string) (Genre, bool) {
	g, ok := genreByFold[strings.ToLower(strings.TrimSpace(s))]
	return g, ok
}

// Genres is an ordered genre list.  It is persisted as a single
// comma-joined column; the conversion happens only here.
type Genres []Genre

// ParseGenres converts raw form values, rejecting unknown genres and
// dropping duplicates while keeping the submitted order.
func ParseGenres(raw []string) (Genres, error) {
	out := make(Genres, 0, len(raw))
	seen := make(map[Genre]bool, len(raw))
	for _, r := range raw {
		g, ok := ParseGenre(r)
		if !ok {
			return nil, fmt.Errorf("unknown genre %q", r)
		}
		if seen[g] {
			continue
		}
		seen[g] = true
		out = append(out, g)
	}
	return out, nil
}

// Strings returns the genre names.
func (g Genres) Strings() []string {
	out := make([]string, len(g))
	for i, v := range g {
		out[i] = string(v)
	}
	return out
}

// Value implements driver.Valuer.
func (g Genres) Value() (driver.Value, error) {
	return strings.Join(g.Strings(), ","), nil
}

// Scan implements sql.Scanner.  Unknown names read back from storage are
// kept verbatim so legacy rows still render.
func (g *Genres) Scan(src any) error {
	var s string
	switch v := src.(type) {
	case nil:
		*g = Genres{}
		return nil
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("genres: cannot scan %T", src)
	}
	out := Genres{}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if known, ok := ParseGenre(part); ok {
			out = append(out, known)
			continue
		}
		out = append(out, Genre(part))
	}
	*g = out
	return nil
}
