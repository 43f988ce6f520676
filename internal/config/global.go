// SPDX-License-Identifier: MPL-2.0

package config

// Directory overrides for tests, since os.UserHomeDir does not reliably
// follow HOME on every platform.
var (
	configDirOverride string
	dataDirOverride   string
)

// Reset clears test overrides.
func Reset() {
	configDirOverride = ""
	dataDirOverride = ""
}

// SetConfigDirOverride forces ConfigDir to return dir.
func SetConfigDirOverride(dir string) {
	configDirOverride = dir
}

// SetDataDirOverride forces DataDir to return dir.
func SetDataDirOverride(dir string) {
	dataDirOverride = dir
}
