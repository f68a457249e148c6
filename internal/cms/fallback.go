package cms

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed fallback.yaml
var fallbackYAML []byte

// fallbackStore serves read-only collections bundled with the binary. It is
// used when no content API is configured, never as a reaction to failures.
type fallbackStore struct {
	collections map[string][]Record
}

func loadFallback() *fallbackStore {
	store, err := parseFallback(fallbackYAML)
	if err != nil {
		panic(fmt.Sprintf("cms: bundled fallback dataset: %v", err))
	}
	return store
}

func parseFallback(data []byte) (*fallbackStore, error) {
	var raw map[string][]map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	store := &fallbackStore{collections: make(map[string][]Record, len(raw))}
	for name, rows := range raw {
		records := make([]Record, 0, len(rows))
		for _, row := range rows {
			records = append(records, Record(row))
		}
		store.collections[name] = records
	}
	return store, nil
}

func (s *fallbackStore) list(collection string, opts ListOptions) []Record {
	rows := s.collections[collection]
	out := make([]Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, project(row, opts.Fields))
	}
	if len(opts.Sort) > 0 {
		sort.SliceStable(out, func(i, j int) bool {
			return lessBy(out[i], out[j], opts.Sort)
		})
	}
	if opts.Limit > 0 && len(out) > opts.Limit {
		out = out[:opts.Limit]
	}
	return out
}

func project(row Record, fields []string) Record {
	out := make(Record, len(row))
	wildcard := len(fields) == 0
	keep := map[string]bool{}
	for _, f := range fields {
		if f == "*" {
			wildcard = true
		}
		keep[strings.SplitN(f, ".", 2)[0]] = true
	}
	for k, v := range row {
		if wildcard || keep[k] {
			out[k] = v
		}
	}
	return out
}

func lessBy(a, b Record, keys []string) bool {
	for _, key := range keys {
		desc := strings.HasPrefix(key, "-")
		field := strings.TrimPrefix(key, "-")
		c := compareValues(a[field], b[field])
		if c == 0 {
			continue
		}
		if desc {
			return c > 0
		}
		return c < 0
	}
	return false
}

func compareValues(a, b any) int {
	if fa, ok := toFloat(a); ok {
		if fb, ok := toFloat(b); ok {
			switch {
			case fa < fb:
				return -1
			case fa > fb:
				return 1
			default:
				return 0
			}
		}
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}
