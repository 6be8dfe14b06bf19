package formstate

import (
	"fmt"
	"strconv"

	"github.com/goliatone/go-autoform/pkg/model"
)

func cloneTree(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		clone := make(map[string]any, len(typed))
		for k, v := range typed {
			clone[k] = cloneTree(v)
		}
		return clone
	case []any:
		clone := make([]any, len(typed))
		for i, v := range typed {
			clone[i] = cloneTree(v)
		}
		return clone
	default:
		return typed
	}
}

func cloneRoot(values map[string]any) map[string]any {
	if len(values) == 0 {
		return make(map[string]any)
	}
	return cloneTree(values).(map[string]any)
}

func getIn(root any, path model.Path) (any, bool) {
	current := root
	for _, segment := range path {
		switch node := current.(type) {
		case map[string]any:
			next, ok := node[segment]
			if !ok {
				return nil, false
			}
			current = next
		case []any:
			idx, err := strconv.Atoi(segment)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, false
			}
			current = node[idx]
		default:
			return nil, false
		}
	}
	return current, true
}

// setIn writes value at path below container and returns the container to
// store in its parent. Missing or scalar intermediates are replaced with a
// slice when the next segment is an index and a map otherwise.
func setIn(container any, path model.Path, value any) (any, error) {
	if len(path) == 0 {
		return value, nil
	}
	segment, rest := path[0], path[1:]
	idx, numeric := index(segment)

	switch node := container.(type) {
	case map[string]any:
		child, err := setIn(node[segment], rest, value)
		if err != nil {
			return nil, err
		}
		node[segment] = child
		return node, nil
	case []any:
		if !numeric {
			return nil, fmt.Errorf("formstate: expected array index, got %q", segment)
		}
		if len(node) <= idx {
			node = append(node, make([]any, idx+1-len(node))...)
		}
		child, err := setIn(node[idx], rest, value)
		if err != nil {
			return nil, err
		}
		node[idx] = child
		return node, nil
	default:
		if numeric {
			return setIn(make([]any, 0, idx+1), path, value)
		}
		return setIn(make(map[string]any), path, value)
	}
}

func index(segment string) (int, bool) {
	idx, err := strconv.Atoi(segment)
	if err != nil || idx < 0 {
		return 0, false
	}
	return idx, true
}

// related reports whether a change at changed can affect a reader of path:
// one is an ancestor of (or equal to) the other.
func related(path, changed model.Path) bool {
	return path.HasPrefix(changed) || changed.HasPrefix(path)
}
