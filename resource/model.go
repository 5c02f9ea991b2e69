package resource

import (
	"context"
	"sort"
	"time"

	"github.com/bool64/ctxd"
)

// Model describes a remote resource type.
type Model struct {
	// Name identifies resource type and its store in registry.
	Name string

	// Parents lists names of parent resources required in path.
	Parents []string

	// DetailURL is an RFC 6570 template of a single resource URL, parents and "id" are available.
	DetailURL string

	// ListURL is an RFC 6570 template of a resource list URL, parents are available.
	ListURL string

	// TimeToLive of cached responses, see servicecache.Config.
	TimeToLive time.Duration
}

// CheckParents reports whether parents match model, mismatches are logged as warnings.
func (m Model) CheckParents(ctx context.Context, logger ctxd.Logger, parents Parents) bool {
	if len(m.Parents) < len(parents) {
		logger.Warn(ctx, "too many parents given", "model", m.Name, "parents", parents)

		return false
	}

	var missing []string

	for _, name := range m.Parents {
		if parents[name] == "" {
			missing = append(missing, name)
		}
	}

	if len(missing) > 0 {
		sort.Strings(missing)
		logger.Warn(ctx, "missing parents", "model", m.Name, "missing", missing)

		return false
	}

	return true
}
