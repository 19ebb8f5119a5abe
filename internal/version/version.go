// Package version provides build and version information.
package version

import "fmt"

// Name is the application name.
const Name = "ls-retrograde"

// Version is the current application version.
const Version = "0.3.0"

// Milestones:
// 0.3.0 - Interactive view with motion-colored sparklines, series cache
// 0.2.0 - Meeus element catalog, config file and RETRO_* environment overrides
// 0.1.0 - Initial release: stationary points, retrograde intervals, JSON/CSV export

// String returns the name and version for --version output.
func String() string {
	return fmt.Sprintf("%s v%s", Name, Version)
}
