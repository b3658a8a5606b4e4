package pagination

import (
	"encoding/base64"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// ErrInvalidCursor is returned for any cursor this package did not produce.
var ErrInvalidCursor = errors.New("invalid cursor")

// Params carries a requested page size and an opaque cursor from the previous page.
type Params struct {
	Limit  int
	Cursor string
}

// Page is one slice of a newest-first listing.
type Page[T any] struct {
	Items      []T    `json:"items"`
	NextCursor string `json:"nextCursor,omitempty"`
}

// Cursor is the (created_at, id) keyset position of the last row a client saw.
type Cursor struct {
	CreatedAt time.Time
	ID        uuid.UUID
}

// Where is the keyset predicate for created_at DESC, id DESC ordering.
func (c Cursor) Where() (string, []any) {
	return "(created_at < ?) OR (created_at = ? AND id < ?)", []any{c.CreatedAt, c.CreatedAt, c.ID}
}

func NormalizeLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	default:
		return limit
	}
}

// LimitWithBuffer asks for one extra row so Trim can tell whether another page exists.
func LimitWithBuffer(limit int) int {
	return NormalizeLimit(limit) + 1
}

// EncodeCursor packs the position as "<unix nanos>.<uuid>" in unpadded URL-safe base64.
func EncodeCursor(c Cursor) string {
	raw := strconv.FormatInt(c.CreatedAt.UTC().UnixNano(), 10) + "." + c.ID.String()
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// ParseCursor returns nil for a blank value.
func ParseCursor(value string) (*Cursor, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}

	raw, err := base64.RawURLEncoding.DecodeString(value)
	if err != nil {
		return nil, ErrInvalidCursor
	}
	nanos, id, ok := strings.Cut(string(raw), ".")
	if !ok {
		return nil, ErrInvalidCursor
	}
	ts, err := strconv.ParseInt(nanos, 10, 64)
	if err != nil || ts <= 0 {
		return nil, ErrInvalidCursor
	}
	parsedID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrInvalidCursor
	}
	return &Cursor{CreatedAt: time.Unix(0, ts).UTC(), ID: parsedID}, nil
}

// Trim drops the buffer row fetched with LimitWithBuffer and derives the next
// cursor from the last returned row.
func Trim[T any](rows []T, limit int, cursorOf func(T) Cursor) Page[T] {
	limit = NormalizeLimit(limit)
	page := Page[T]{Items: rows}
	if len(rows) > limit {
		page.Items = rows[:limit]
		page.NextCursor = EncodeCursor(cursorOf(page.Items[limit-1]))
	}
	if page.Items == nil {
		page.Items = []T{}
	}
	return page
}
