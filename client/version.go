package client

import (
	"fmt"
	"strings"
)

// Version is a server version learned from the connect probe.
type Version struct {
	Major int
	Minor int
	Patch int
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// IsZero reports whether the connect probe failed to learn a version.
func (v Version) IsZero() bool {
	return v == Version{}
}

// parseVersionValue reads a redis_version field value. Servers have
// reported two shapes: x.y.z and, in early releases, x.yz. Both are
// accepted; the two-part shape maps to {x, 0, yz}. Fewer than two
// numeric components is a failure.
func parseVersionValue(value string) (Version, bool) {
	parts := strings.SplitN(value, ".", 3)

	nums := make([]int, 0, 3)
	for _, part := range parts {
		n, ok := leadingInt(part)
		if !ok {
			break
		}

		nums = append(nums, n)
	}

	switch {
	case len(nums) >= 3:
		return Version{Major: nums[0], Minor: nums[1], Patch: nums[2]}, true

	case len(nums) == 2:
		return Version{Major: nums[0], Patch: nums[1]}, true

	default:
		return Version{}, false
	}
}

// leadingInt reads the digits at the start of s. ok is false when s
// does not start with a digit.
func leadingInt(s string) (n int, ok bool) {
	i := 0
	for ; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
		n = n*10 + int(s[i]-'0')
	}

	return n, i > 0
}
