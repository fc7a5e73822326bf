package pagination

import (
	"encoding/base64"
	"encoding/json"
)

type Pagination struct {
	PageToken string `form:"page_token"`
	PageSize  int    `form:"page_size"`
}

type Cursor struct {
	ID        string `json:"id,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

type PageInfo struct {
	NextPageToken string `json:"next_page_token,omitempty"`
	HasMore       bool   `json:"has_more"`
}

func EncodeCursor(data Cursor) (string, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return "", err
	}

	return base64.URLEncoding.EncodeToString(b), nil
}

func DecodeCursor(data string) (*Cursor, error) {
	b, err := base64.URLEncoding.DecodeString(data)
	if err != nil {
		return nil, err
	}

	var cursor Cursor
	if err := json.Unmarshal(b, &cursor); err != nil {
		return nil, err
	}

	return &cursor, nil
}

// BuildCursorPageInfo expects up to limit+1 rows; the extra row only signals that another page exists.
func BuildCursorPageInfo[T any](data []*T, limit int32, extractCursor func(*T) string) *PageInfo {
	if limit <= 0 || len(data) <= int(limit) {
		return &PageInfo{HasMore: false}
	}

	return &PageInfo{
		HasMore:       true,
		NextPageToken: extractCursor(data[limit-1]),
	}
}
