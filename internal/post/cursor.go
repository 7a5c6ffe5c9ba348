package post

import (
	"encoding/base64"
	"encoding/json"
	"time"
)

// CursorData identifies the boundary document of a page window. The
// sort key is (created_at DESC, id DESC); the id breaks timestamp ties.
type CursorData struct {
	ID        string    `json:"id,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// EncodeCursor encodes cursor data to an opaque base64 string.
func EncodeCursor(data CursorData) string {
	if data.ID == "" {
		return ""
	}
	jsonBytes, err := json.Marshal(data)
	if err != nil {
		return ""
	}
	return base64.URLEncoding.EncodeToString(jsonBytes)
}

// DecodeCursor decodes an opaque cursor back into cursor data.
func DecodeCursor(cursor string) (CursorData, error) {
	if cursor == "" {
		return CursorData{}, nil
	}

	decoded, err := base64.URLEncoding.DecodeString(cursor)
	if err != nil {
		return CursorData{}, err
	}

	var data CursorData
	err = json.Unmarshal(decoded, &data)
	return data, err
}

// CursorFor returns the cursor pointing at p.
func CursorFor(p Post) string {
	return EncodeCursor(CursorData{ID: p.ID, CreatedAt: p.CreatedAt})
}
