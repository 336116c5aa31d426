package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/venue-booking/internal/form"
	"github.com/iliyamo/venue-booking/internal/model"
	"github.com/iliyamo/venue-booking/internal/repository"
)

// ListShows returns every show ordered by id.
func (h *DirectoryHandler) ListShows(c echo.Context) error {
	shows, err := h.Dir.ListShows(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"shows": shows})
}

// NewShowForm returns the show form defaulted to the current time, with
// the artists and venues it may reference.
func (h *DirectoryHandler) NewShowForm(c echo.Context) error {
	choices, err := h.Dir.ShowFormChoices(c.Request().Context())
	if err != nil {
		return err
	}
	f := form.ShowForm{StartTime: h.Dir.Now().Format(model.TimeLayout)}
	return c.JSON(http.StatusOK, echo.Map{"form": f, "choices": choices})
}

// CreateShow handles the show form submission.
func (h *DirectoryHandler) CreateShow(c echo.Context) error {
	var f form.ShowForm
	if ok, err := bindForm(c, &f); !ok {
		return err
	}
	in, err := f.Input()
	if err != nil {
		return invalid(c, &f, err)
	}
	ctx := c.Request().Context()
	if _, err := h.Dir.CreateShow(ctx, in); err != nil {
		return h.redirectWithFlash(c, "/shows/create", "An error occurred. Show could not be listed.")
	}
	h.invalidate(ctx)
	return h.redirectWithFlash(c, "/", "Show was successfully listed!")
}

// DeleteShow removes a single show.
func (h *DirectoryHandler) DeleteShow(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"success": false})
	}
	ctx := c.Request().Context()
	err = h.Dir.DeleteShow(ctx, id)
	switch {
	case errors.Is(err, repository.ErrShowNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"success": false})
	case err != nil:
		h.Log.Error().Err(err).Uint64("show_id", id).Msg("delete show")
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false})
	}
	h.invalidate(ctx)
	return c.JSON(http.StatusOK, echo.Map{"success": true, "deleted": id})
}
