package handler

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const flashCookie = "flash"

// addFlash queues msg for the next page view.  Messages already queued in
// this request or a previous one are kept.
func addFlash(c echo.Context, msg string) {
	msgs := append(readFlashes(c), msg)
	raw, err := json.Marshal(msgs)
	if err != nil {
		return
	}
	cookie := &http.Cookie{
		Name:     flashCookie,
		Value:    base64.RawURLEncoding.EncodeToString(raw),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	c.SetCookie(cookie)
	c.Set(flashCookie, msgs)
}

func readFlashes(c echo.Context) []string {
	if msgs, ok := c.Get(flashCookie).([]string); ok {
		return msgs
	}
	ck, err := c.Cookie(flashCookie)
	if err != nil {
		return nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(ck.Value)
	if err != nil {
		return nil
	}
	var msgs []string
	if json.Unmarshal(raw, &msgs) != nil {
		return nil
	}
	return msgs
}

// popFlashes returns the queued messages and expires the cookie.
func popFlashes(c echo.Context) []string {
	msgs := readFlashes(c)
	if msgs == nil {
		return []string{}
	}
	c.SetCookie(&http.Cookie{Name: flashCookie, Value: "", Path: "/", MaxAge: -1, Expires: time.Unix(0, 0), HttpOnly: true})
	c.Set(flashCookie, []string(nil))
	return msgs
}
