// Package handler maps the directory's HTTP routes onto service calls.
// Read views are rendered as JSON view models; form submissions answer
// with a 400 carrying field errors or a 303 redirect with a flash message.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/venue-booking/internal/form"
	"github.com/iliyamo/venue-booking/internal/model"
	"github.com/iliyamo/venue-booking/internal/service"
)

// Invalidator drops cached read views after a write.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// DirectoryHandler serves every venue, artist and show route.
type DirectoryHandler struct {
	Dir   *service.Directory
	Cache Invalidator // optional
	Log   zerolog.Logger
}

// NewDirectoryHandler wires a handler to the directory service.
func NewDirectoryHandler(dir *service.Directory, cache Invalidator, log zerolog.Logger) *DirectoryHandler {
	return &DirectoryHandler{Dir: dir, Cache: cache, Log: log.With().Str("component", "handler").Logger()}
}

// selectChoices are the fixed options of the venue and artist forms.
type selectChoices struct {
	States []string `json:"states"`
	Genres []string `json:"genres"`
}

func formChoices() selectChoices {
	return selectChoices{States: model.States, Genres: model.Genres(model.AllGenres).Strings()}
}

// Index is the landing page.  It returns and clears pending flash messages.
func (h *DirectoryHandler) Index(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"flashes": popFlashes(c)})
}

// pathID parses the :id parameter.  Malformed ids are reported as 404.
func pathID(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, echo.ErrNotFound
	}
	return id, nil
}

// bindForm binds and validates a form submission into dst.  On failure
// it has already written the 400 response and returns ok=false.
func bindForm(c echo.Context, dst any) (ok bool, err error) {
	if err := c.Bind(dst); err != nil {
		var he *echo.HTTPError
		msg := "malformed form submission"
		if errors.As(err, &he) {
			if s, isStr := he.Message.(string); isStr {
				msg = s
			}
		}
		return false, c.JSON(http.StatusBadRequest, echo.Map{"form": dst, "errors": echo.Map{"form": msg}})
	}
	if err := form.Validate(dst); err != nil {
		return false, invalid(c, dst, err)
	}
	return true, nil
}

func invalid(c echo.Context, dst any, err error) error {
	var fe form.FieldErrors
	if !errors.As(err, &fe) {
		return err
	}
	return c.JSON(http.StatusBadRequest, echo.Map{"form": dst, "errors": fe})
}

func (h *DirectoryHandler) invalidate(ctx context.Context) {
	if h.Cache == nil {
		return
	}
	if err := h.Cache.Invalidate(ctx); err != nil {
		h.Log.Warn().Err(err).Msg("cache invalidation failed")
	}
}

func (h *DirectoryHandler) redirectWithFlash(c echo.Context, to, msg string) error {
	addFlash(c, msg)
	return c.Redirect(http.StatusSeeOther, to)
}

// ErrorHandler renders every unhandled error as JSON and logs server faults.
func ErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		status := http.StatusInternalServerError
		msg := http.StatusText(status)
		var he *echo.HTTPError
		if errors.As(err, &he) {
			status = he.Code
			if s, ok := he.Message.(string); ok {
				msg = s
			} else {
				msg = http.StatusText(status)
			}
		}
		if status >= 500 {
			log.Error().Err(err).Str("uri", c.Request().RequestURI).Msg("request failed")
			msg = http.StatusText(status)
		}
		if c.Response().Committed {
			return
		}
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, echo.Map{"error": msg})
	}
}
