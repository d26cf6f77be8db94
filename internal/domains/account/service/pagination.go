package service

import (
	"strconv"
	"strings"
)

const (
	// DefaultPageSize is used when the caller asks for nothing or nonsense.
	DefaultPageSize = 50
	// MaxPageSize caps what a single page may return.
	MaxPageSize = 200
)

// resolvePageSize clamps the requested page size into [1, MaxPageSize].
func resolvePageSize(requested int) int {
	if requested <= 0 {
		return DefaultPageSize
	}
	if requested > MaxPageSize {
		return MaxPageSize
	}
	return requested
}

// decodePageToken turns a continuation token back into a store offset.
// The token is simply the prior offset encoded as decimal text; anything
// unparsable or negative resolves to offset zero rather than failing.
func decodePageToken(token string) int {
	token = strings.TrimSpace(token)
	if token == "" {
		return 0
	}
	offset, err := strconv.Atoi(token)
	if err != nil || offset < 0 {
		return 0
	}
	return offset
}

// encodePageToken produces the token handed back to the caller.
func encodePageToken(offset int) string {
	return strconv.Itoa(offset)
}
