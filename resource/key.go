package resource

import (
	"net/url"
	"sort"
	"strings"
)

// Parents are values of parent resources in path, e.g. {"post": "1"} for comments of a post.
type Parents map[string]string

// Filter contains list query parameters.
type Filter = url.Values

// DetailKey builds cache key of a single resource.
func DetailKey(id string, parents Parents) string {
	return parentsPrefix(parents) + "detail#" + id
}

// ListKey builds cache key of a resource list.
//
// Equal filters produce equal keys regardless of parameters order.
func ListKey(filter Filter, parents Parents) string {
	k := parentsPrefix(parents) + "list"

	if q := filter.Encode(); q != "" {
		k += "#" + q
	}

	return k
}

func parentsPrefix(parents Parents) string {
	if len(parents) == 0 {
		return ""
	}

	names := make([]string, 0, len(parents))
	for name := range parents {
		names = append(names, name)
	}

	sort.Strings(names)

	sb := strings.Builder{}

	for _, name := range names {
		sb.WriteString(url.QueryEscape(name))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(parents[name]))
		sb.WriteByte('/')
	}

	return sb.String()
}
