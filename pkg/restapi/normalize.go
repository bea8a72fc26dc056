package restapi

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ListResult is the normalized form of a collection response. Backends answer
// either with a bare array or with an `{items, totalResults}` envelope; both
// shapes funnel through NormalizeList exactly once, at the fetch boundary.
type ListResult struct {
	Items        []json.RawMessage
	TotalResults int
	Enveloped    bool
}

type listEnvelope struct {
	Items        []json.RawMessage `json:"items"`
	TotalResults int               `json:"totalResults"`
}

// NormalizeList decodes a collection response body into a ListResult. A bare
// array reports TotalResults as zero, so pagination degrades to best-effort.
// Unexpected shapes coerce to an empty result rather than erroring.
func NormalizeList(body []byte) (ListResult, error) {
	trimmed := bytes.TrimLeft(body, " \t\r\n")
	if len(trimmed) == 0 {
		return ListResult{}, nil
	}
	switch trimmed[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return ListResult{}, fmt.Errorf("restapi: decode list: %w", err)
		}
		return ListResult{Items: items}, nil
	case '{':
		var env listEnvelope
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return ListResult{}, fmt.Errorf("restapi: decode envelope: %w", err)
		}
		if env.Items == nil {
			return ListResult{}, nil
		}
		return ListResult{
			Items:        env.Items,
			TotalResults: env.TotalResults,
			Enveloped:    true,
		}, nil
	default:
		return ListResult{}, nil
	}
}

// DecodeItems unmarshals every raw item into the concrete entity type. Rows
// that fail to decode are skipped so a single malformed record cannot take
// down the whole page.
func DecodeItems[T any](res ListResult) []T {
	out := make([]T, 0, len(res.Items))
	for _, raw := range res.Items {
		var item T
		if err := json.Unmarshal(raw, &item); err != nil {
			continue
		}
		out = append(out, item)
	}
	return out
}
