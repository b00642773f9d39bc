package datasource

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnresolvedRelationship is returned when a path hop names no association.
var ErrUnresolvedRelationship = errors.New("datasource: unresolved relationship")

// Resolve walks a dotted field path from root through its associations and
// returns the data source owning the terminal field. Numeric segments address
// collection elements and are skipped; hopping through a to-many association
// also consumes the index segment that follows it.
func Resolve(path string, root DataSource) (DataSource, string, error) {
	if root == nil {
		return nil, "", fmt.Errorf("%w: no root data source for %q", ErrUnresolvedRelationship, path)
	}
	segments := strings.Split(path, ".")
	field := segments[len(segments)-1]
	hops := segments[:len(segments)-1]

	current := root
	for i := 0; i < len(hops); i++ {
		hop := hops[i]
		if isIndex(hop) {
			continue
		}
		rel, ok := FindRelationship(current, hop)
		if !ok || rel.Target == nil {
			return nil, "", fmt.Errorf("%w: %q has no association %q (path %q)", ErrUnresolvedRelationship, current.Name(), hop, path)
		}
		current = rel.Target
		if rel.HasMultiple() {
			i++
		}
	}
	return current, field, nil
}

func isIndex(segment string) bool {
	if segment == "" {
		return false
	}
	_, err := strconv.Atoi(segment)
	return err == nil
}
