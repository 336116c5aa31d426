package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/venue-booking/internal/form"
	"github.com/iliyamo/venue-booking/internal/repository"
)

// ListArtists returns every artist ordered by name.
func (h *DirectoryHandler) ListArtists(c echo.Context) error {
	artists, err := h.Dir.ListArtists(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"artists": artists})
}

// SearchArtists answers the artist search box.
func (h *DirectoryHandler) SearchArtists(c echo.Context) error {
	var f form.SearchForm
	if ok, err := bindForm(c, &f); !ok {
		return err
	}
	res, err := h.Dir.SearchArtists(c.Request().Context(), f.SearchTerm)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"results": res, "search_term": f.SearchTerm})
}

// ShowArtist renders an artist page, or a null artist for unknown ids.
func (h *DirectoryHandler) ShowArtist(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	a, err := h.Dir.GetArtistDetail(c.Request().Context(), id)
	if errors.Is(err, repository.ErrArtistNotFound) {
		return c.JSON(http.StatusOK, echo.Map{"artist": nil})
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"artist": a})
}

// NewArtistForm returns an empty artist form with its choices.
func (h *DirectoryHandler) NewArtistForm(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"form": form.ArtistForm{}, "choices": formChoices()})
}

// CreateArtist handles the artist form submission.
func (h *DirectoryHandler) CreateArtist(c echo.Context) error {
	var f form.ArtistForm
	if ok, err := bindForm(c, &f); !ok {
		return err
	}
	in, err := f.Input()
	if err != nil {
		return invalid(c, &f, err)
	}
	ctx := c.Request().Context()
	if _, err := h.Dir.CreateArtist(ctx, in); err != nil {
		return h.redirectWithFlash(c, "/artists/create", fmt.Sprintf("An error occurred. Artist %s could not be listed.", in.Name))
	}
	h.invalidate(ctx)
	return h.redirectWithFlash(c, "/", fmt.Sprintf("Artist %s was successfully listed!", in.Name))
}

// EditArtistForm returns the artist form pre-filled from storage.  An
// unknown id redirects to the artist page.
func (h *DirectoryHandler) EditArtistForm(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	a, err := h.Dir.GetArtist(c.Request().Context(), id)
	if errors.Is(err, repository.ErrArtistNotFound) {
		return c.Redirect(http.StatusSeeOther, fmt.Sprintf("/artists/%d", id))
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{
		"artist":  echo.Map{"id": a.ID, "name": a.Name},
		"form":    form.ArtistFormFrom(a),
		"choices": formChoices(),
	})
}

// UpdateArtist handles the artist edit submission and returns to the
// artist index on success.
func (h *DirectoryHandler) UpdateArtist(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var f form.ArtistForm
	if ok, err := bindForm(c, &f); !ok {
		return err
	}
	in, err := f.Input()
	if err != nil {
		return invalid(c, &f, err)
	}
	ctx := c.Request().Context()
	_, err = h.Dir.UpdateArtist(ctx, id, in)
	switch {
	case errors.Is(err, repository.ErrArtistNotFound):
		return c.Redirect(http.StatusSeeOther, fmt.Sprintf("/artists/%d", id))
	case err != nil:
		return h.redirectWithFlash(c, fmt.Sprintf("/artists/%d/edit", id), fmt.Sprintf("An error occurred. Artist %s could not be updated.", in.Name))
	}
	h.invalidate(ctx)
	return h.redirectWithFlash(c, "/artists", fmt.Sprintf("Artist %s was successfully updated!", in.Name))
}
