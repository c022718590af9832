package app

import "runtime/debug"

// shortRevision returns the first 7 characters of the VCS revision, taken
// from value or, when empty, from the build info.
func shortRevision(value string) string {
	const unknown = "0000000"

	if value == "" {
		value = unknown
		if info, ok := debug.ReadBuildInfo(); ok {
			for _, setting := range info.Settings {
				if setting.Key == "vcs.revision" {
					value = setting.Value
				}
			}
		}
	}
	if len(value) > 7 {
		return value[:7]
	}
	return value
}
