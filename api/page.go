// Copyright (c) 2025 the fieldcheck authors.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package api

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Page is the one paged result shape the rest of the client sees. The
// backend is inconsistent on the wire: list endpoints sometimes return a
// bare JSON array and sometimes a {data, total, page, limit} envelope.
// decodePage absorbs both here so nothing above the gateway has to care.
type Page[T any] struct {
	Data  []T `json:"data"`
	Total int `json:"total"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func decodePage[T any](raw []byte) (Page[T], error) {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	if len(trimmed) == 0 {
		return Page[T]{}, fmt.Errorf("empty response body")
	}

	if trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(raw, &items); err != nil {
			return Page[T]{}, fmt.Errorf("decoding list response: %w", err)
		}
		return Page[T]{Data: items, Total: len(items), Page: 1, Limit: len(items)}, nil
	}

	var p Page[T]
	if err := json.Unmarshal(raw, &p); err != nil {
		return Page[T]{}, fmt.Errorf("decoding paged response: %w", err)
	}
	return p, nil
}
