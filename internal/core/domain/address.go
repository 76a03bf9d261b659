package domain

import (
	"net/url"
	"strconv"
	"strings"
)

// Address builds the canonical address of a resource: <base>/<resource>/<id>.
// base may be empty, in which case the address is a rooted path.
func Address(base, resource string, id int64) string {
	return strings.TrimRight(base, "/") + "/" + resource + "/" + strconv.FormatInt(id, 10)
}

// CollectionAddress builds the address of a whole collection: <base>/<resource>.
func CollectionAddress(base, resource string) string {
	return strings.TrimRight(base, "/") + "/" + resource
}

// ParseAddress extracts the id from an address whose last two path segments are
// <resource>/<id>. Both absolute URLs and bare paths are accepted; the host part
// is not checked. ok is false for anything that cannot name a record.
func ParseAddress(addr, resource string) (id int64, ok bool) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return 0, false
	}

	path := addr
	if u, err := url.Parse(addr); err == nil {
		path = u.Path
	}

	segments := strings.Split(strings.Trim(path, "/"), "/")
	if len(segments) < 2 || segments[len(segments)-2] != resource {
		return 0, false
	}
	return ParseID(segments[len(segments)-1])
}

// ParseID parses a path id segment. Only positive decimal integers name a record.
func ParseID(s string) (int64, bool) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
