package runtime

import (
	"fmt"
	"strconv"
	"strings"
)

// fieldRef is one parsed field path. Three forms exist: a bare top-level key
// ("title"), a group member ("meta.author"), and a repeater row member
// ("sections[2][name]").
type fieldRef struct {
	container string // repeater or group key, empty for top-level fields
	index     int    // row position, -1 outside repeaters
	key       string // local field key
}

func parsePath(path string) (fieldRef, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return fieldRef{}, fmt.Errorf("runtime: empty field path")
	}

	if open := strings.IndexByte(path, '['); open >= 0 {
		container := path[:open]
		rest := path[open:]
		if container == "" || !strings.HasPrefix(rest, "[") || !strings.HasSuffix(rest, "]") {
			return fieldRef{}, fmt.Errorf("runtime: malformed row path %q", path)
		}
		parts := strings.Split(rest[1:len(rest)-1], "][")
		if len(parts) != 2 {
			return fieldRef{}, fmt.Errorf("runtime: malformed row path %q", path)
		}
		indexPart, keyPart := parts[0], parts[1]
		index, err := strconv.Atoi(indexPart)
		if err != nil || index < 0 {
			return fieldRef{}, fmt.Errorf("runtime: malformed row index in %q", path)
		}
		if keyPart == "" {
			return fieldRef{}, fmt.Errorf("runtime: malformed row path %q", path)
		}
		return fieldRef{container: container, index: index, key: keyPart}, nil
	}

	if dot := strings.IndexByte(path, '.'); dot >= 0 {
		container, key := path[:dot], path[dot+1:]
		if container == "" || key == "" || strings.Contains(key, ".") {
			return fieldRef{}, fmt.Errorf("runtime: malformed group path %q", path)
		}
		return fieldRef{container: container, index: -1, key: key}, nil
	}

	return fieldRef{index: -1, key: path}, nil
}

// groupPath formats a group member path.
func groupPath(groupKey, childKey string) string {
	return groupKey + "." + childKey
}
