package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/venue-booking/internal/form"
	"github.com/iliyamo/venue-booking/internal/repository"
)

// ListVenues returns venues grouped by city.
func (h *DirectoryHandler) ListVenues(c echo.Context) error {
	areas, err := h.Dir.ListVenuesByCity(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"areas": areas})
}

// SearchVenues answers the venue search box.
func (h *DirectoryHandler) SearchVenues(c echo.Context) error {
	var f form.SearchForm
	if ok, err := bindForm(c, &f); !ok {
		return err
	}
	res, err := h.Dir.SearchVenues(c.Request().Context(), f.SearchTerm)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"results": res, "search_term": f.SearchTerm})
}

// ShowVenue renders a venue page.  An unknown id renders a null venue.
func (h *DirectoryHandler) ShowVenue(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	v, err := h.Dir.GetVenueDetail(c.Request().Context(), id)
	if errors.Is(err, repository.ErrVenueNotFound) {
		return c.JSON(http.StatusOK, echo.Map{"venue": nil})
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"venue": v})
}

// NewVenueForm returns an empty venue form with its choices.
func (h *DirectoryHandler) NewVenueForm(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"form": form.VenueForm{}, "choices": formChoices()})
}

// CreateVenue handles the venue form submission.
func (h *DirectoryHandler) CreateVenue(c echo.Context) error {
	var f form.VenueForm
	if ok, err := bindForm(c, &f); !ok {
		return err
	}
	in, err := f.Input()
	if err != nil {
		return invalid(c, &f, err)
	}
	ctx := c.Request().Context()
	if _, err := h.Dir.CreateVenue(ctx, in); err != nil {
		return h.redirectWithFlash(c, "/venues/create", fmt.Sprintf("An error occurred. Venue %s could not be listed.", in.Name))
	}
	h.invalidate(ctx)
	return h.redirectWithFlash(c, "/", fmt.Sprintf("Venue %s was successfully listed!", in.Name))
}

// EditVenueForm returns the venue form pre-filled from storage.
func (h *DirectoryHandler) EditVenueForm(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	v, err := h.Dir.GetVenue(c.Request().Context(), id)
	if errors.Is(err, repository.ErrVenueNotFound) {
		return c.Redirect(http.StatusSeeOther, fmt.Sprintf("/venues/%d", id))
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"venue":   echo.Map{"id": v.ID, "name": v.Name},
		"form":    form.VenueFormFrom(v),
		"choices": formChoices(),
	})
}

// UpdateVenue handles the venue edit submission.
func (h *DirectoryHandler) UpdateVenue(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var f form.VenueForm
	if ok, err := bindForm(c, &f); !ok {
		return err
	}
	in, err := f.Input()
	if err != nil {
		return invalid(c, &f, err)
	}
	ctx := c.Request().Context()
	show := fmt.Sprintf("/venues/%d", id)
	_, err = h.Dir.UpdateVenue(ctx, id, in)
	switch {
	case errors.Is(err, repository.ErrVenueNotFound):
		return c.Redirect(http.StatusSeeOther, show)
	case err != nil:
		return h.redirectWithFlash(c, show+"/edit", fmt.Sprintf("An error occurred. Venue %s could not be updated.", in.Name))
	}
	h.invalidate(ctx)
	return h.redirectWithFlash(c, show, fmt.Sprintf("Venue %s was successfully updated!", in.Name))
}

// DeleteVenue removes a venue and its shows.  It is the only JSON write
// endpoint besides DeleteShow.
func (h *DirectoryHandler) DeleteVenue(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{"success": false})
	}
	ctx := c.Request().Context()
	err = h.Dir.DeleteVenue(ctx, id)
	switch {
	case errors.Is(err, repository.ErrVenueNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"success": false})
	case err != nil:
		h.Log.Error().Err(err).Uint64("venue_id", id).Msg("delete venue")
		return c.JSON(http.StatusInternalServerError, echo.Map{"success": false})
	}
	h.invalidate(ctx)
	return c.JSON(http.StatusOK, echo.Map{"success": true, "deleted": id})
}
