package meta

import (
	"fmt"
	"runtime"
)

// These are stamped in by the linker -X flag at release time.
var (
	// Version is an arbitrary release string
	Version string

	// Build is the Git sha the binary was built from
	Build string

	// Branch is the Git branch the binary was built from
	Branch string

	// BuildTimeUTC is the build time in UTC (year/month/day hour:min:sec)
	BuildTimeUTC string
)

// Info is the build context of a credis binary.
type Info struct {
	Version   string
	Build     string
	Branch    string
	BuildTime string
	Platform  string
	GoVersion string
}

// GetInfo collects the stamped build information. A binary built
// without linker flags reports the devel version.
func GetInfo() Info {
	info := Info{
		Version:   Version,
		Build:     Build,
		Branch:    Branch,
		BuildTime: BuildTimeUTC,
		Platform:  fmt.Sprintf("%s %s", runtime.GOOS, runtime.GOARCH),
		GoVersion: runtime.Version(),
	}

	if info.Version == "" {
		info.Version = "devel"
	}

	return info
}
