package shopify

import (
	"fmt"
	"strings"
)

// CustomerGID builds a customer GID from a bare numeric id. Values that already
// look like a GID are passed through.
func CustomerGID(id string) string {
	if strings.HasPrefix(id, "gid://") {
		return id
	}
	return fmt.Sprintf("gid://shopify/Customer/%s", id)
}

// ExtractIDFromGID returns the trailing numeric id of a GID
// (e.g. "gid://shopify/Product/123" -> "123"). Non-GID input is returned as-is.
func ExtractIDFromGID(gid string) string {
	if !strings.Contains(gid, "/") {
		return gid
	}
	parts := strings.Split(gid, "/")
	return parts[len(parts)-1]
}
