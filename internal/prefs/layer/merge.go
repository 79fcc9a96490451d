package layer

import "strings"

// DeepMerge folds src into dst and returns dst. Nested maps merge key
// by key; any other value from src replaces what dst had. Merged-in
// values are cloned so later writes to dst never alias a layer's data.
func DeepMerge(dst, src map[string]any) map[string]any {
	if dst == nil {
		dst = make(map[string]any)
	}

	for key, incoming := range src {
		inMap, inIsMap := incoming.(map[string]any)
		haveMap, haveIsMap := dst[key].(map[string]any)

		if inIsMap && haveIsMap {
			dst[key] = DeepMerge(haveMap, inMap)
			continue
		}
		dst[key] = cloneValue(incoming)
	}

	return dst
}

func cloneValue(val any) any {
	switch v := val.(type) {
	case map[string]any:
		return cloneMap(v)
	case []any:
		return cloneSlice(v)
	default:
		return val
	}
}

// GetByPath resolves a dot-separated path ("interface.showGrid")
// against a nested map.
func GetByPath(data map[string]any, path string) (any, bool) {
	if data == nil || path == "" {
		return nil, false
	}

	node := any(data)
	for path != "" {
		m, ok := node.(map[string]any)
		if !ok {
			return nil, false
		}

		seg := path
		if i := strings.IndexByte(path, '.'); i >= 0 {
			seg, path = path[:i], path[i+1:]
		} else {
			path = ""
		}

		if node, ok = m[seg]; !ok {
			return nil, false
		}
	}
	return node, true
}

// SetByPath writes a value at a dot-separated path, creating
// intermediate maps. A non-map value sitting on the path is replaced.
func SetByPath(data map[string]any, path string, value any) {
	if data == nil {
		return
	}

	segs := strings.Split(path, ".")
	node := data
	for _, seg := range segs[:len(segs)-1] {
		child, ok := node[seg].(map[string]any)
		if !ok {
			child = make(map[string]any)
			node[seg] = child
		}
		node = child
	}
	node[segs[len(segs)-1]] = value
}

// DeleteByPath removes the value at a dot-separated path and reports
// whether anything was removed. Emptied parent maps are left in place.
func DeleteByPath(data map[string]any, path string) bool {
	if data == nil {
		return false
	}

	segs := strings.Split(path, ".")
	node := data
	for _, seg := range segs[:len(segs)-1] {
		child, ok := node[seg].(map[string]any)
		if !ok {
			return false
		}
		node = child
	}

	leaf := segs[len(segs)-1]
	if _, ok := node[leaf]; !ok {
		return false
	}
	delete(node, leaf)
	return true
}

// FlattenMap converts a nested map into dot-path keys, the shape used
// when listing effective settings.
func FlattenMap(data map[string]any) map[string]any {
	flat := make(map[string]any)
	flatten(data, "", flat)
	return flat
}

func flatten(data map[string]any, prefix string, into map[string]any) {
	for key, val := range data {
		path := key
		if prefix != "" {
			path = prefix + "." + key
		}
		if child, ok := val.(map[string]any); ok {
			flatten(child, path, into)
			continue
		}
		into[path] = val
	}
}
