package agent

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Task identifier prefixes, one per route.
const (
	PrefixBrowse = "task"
	PrefixScroll = "scroll"
	PrefixSearch = "search"
)

// TaskID derives a stable identifier from a route prefix and the
// request field that names the work: the task text for browse and
// search, the app URL for scroll. The same input always yields the
// same id, on success and failure alike.
func TaskID(prefix, input string) string {
	return fmt.Sprintf("%s_%d", prefix, xxhash.Sum64String(input))
}
