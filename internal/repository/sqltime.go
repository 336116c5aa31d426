package repository

import (
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/venue-booking/internal/model"
)

// sqlTime scans DATETIME columns from either driver: MySQL hands back a
// time.Time (parseTime=true), SQLite the stored text.
type sqlTime struct{ time.Time }

var sqlTimeLayouts = []string{
	model.TimeLayout,
	"2006-01-02 15:04:05.999999999",
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
}

func (t *sqlTime) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		t.Time = v.UTC()
		return nil
	case string:
		return t.parse(v)
	case []byte:
		return t.parse(string(v))
	case nil:
		t.Time = time.Time{}
		return nil
	}
	return fmt.Errorf("sqltime: cannot scan %T", src)
}

func (t *sqlTime) parse(s string) error {
	s = strings.TrimSpace(s)
	for _, layout := range sqlTimeLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			t.Time = parsed.UTC()
			return nil
		}
	}
	return fmt.Errorf("sqltime: unrecognised timestamp %q", s)
}

// dbTime formats t for storage and comparisons.
func dbTime(t time.Time) string {
	return t.UTC().Format(model.TimeLayout)
}

// likeContains builds a LIKE pattern matching term anywhere, lower-cased,
// with wildcards in term escaped by '!'.
func likeContains(term string) string {
	r := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
	return "%" + r.Replace(strings.ToLower(strings.TrimSpace(term))) + "%"
}
