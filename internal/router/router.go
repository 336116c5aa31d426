// Package router registers the directory's HTTP routes.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/venue-booking/internal/handler"
)

// Middlewares are the per-route layers applied by RegisterRoutes.  A nil
// entry is skipped.
type Middlewares struct {
	Cache     echo.MiddlewareFunc // read views
	RateLimit echo.MiddlewareFunc // form submissions and deletes
}

func (m Middlewares) reads() []echo.MiddlewareFunc {
	if m.Cache == nil {
		return nil
	}
	return []echo.MiddlewareFunc{m.Cache}
}

func (m Middlewares) writes() []echo.MiddlewareFunc {
	if m.RateLimit == nil {
		return nil
	}
	return []echo.MiddlewareFunc{m.RateLimit}
}

// RegisterRoutes maps every route onto h.  The landing page and the forms
// are never cached: the landing page consumes flash messages and the show
// form lists live choices.
func RegisterRoutes(e *echo.Echo, h *handler.DirectoryHandler, mw Middlewares) {
	read, write := mw.reads(), mw.writes()

	e.GET("/healthz", handler.Health)
	e.GET("/", h.Index)

	e.GET("/venues", h.ListVenues, read...)
	e.POST("/venues/search", h.SearchVenues, write...)
	e.GET("/venues/create", h.NewVenueForm)
	e.POST("/venues/create", h.CreateVenue, write...)
	e.GET("/venues/:id", h.ShowVenue, read...)
	e.GET("/venues/:id/edit", h.EditVenueForm)
	e.POST("/venues/:id/edit", h.UpdateVenue, write...)
	e.DELETE("/venues/:id", h.DeleteVenue, write...)

	e.GET("/artists", h.ListArtists, read...)
	e.POST("/artists/search", h.SearchArtists, write...)
	e.GET("/artists/create", h.NewArtistForm)
	e.POST("/artists/create", h.CreateArtist, write...)
	e.GET("/artists/:id", h.ShowArtist, read...)
	e.GET("/artists/:id/edit", h.EditArtistForm)
	e.POST("/artists/:id/edit", h.UpdateArtist, write...)

	e.GET("/shows", h.ListShows, read...)
	e.GET("/shows/create", h.NewShowForm)
	e.POST("/shows/create", h.CreateShow, write...)
	e.DELETE("/shows/:id", h.DeleteShow, write...)
}
