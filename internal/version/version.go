package version

import (
	"fmt"
	"strings"
)

// Version is the service current released version.
var Version = "0.4.1"

// DevVersion is the service development version.
var DevVersion = "0.4.1"

func GetCurrentVersion(mode string) string {
	if mode == "dev" || mode == "demo" {
		return DevVersion
	}
	return Version
}

func GetMinorVersion(version string) string {
	versionList := strings.Split(version, ".")
	if len(versionList) < 3 {
		return ""
	}
	return strings.Join(versionList[0:2], ".")
}

func GetSchemaVersion(version string) string {
	minorVersion := GetMinorVersion(version)
	return fmt.Sprintf("%s.0", minorVersion)
}
