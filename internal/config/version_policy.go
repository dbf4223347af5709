package config

import (
	"slices"
	"strings"
)

// CurrentConfigVersion is written by `fencerun` examples and accepted by Load.
const CurrentConfigVersion = "1"

// SupportedConfigVersions lists every configVersion Load understands. A file
// without configVersion is treated as current.
var SupportedConfigVersions = []string{CurrentConfigVersion}

func IsSupportedConfigVersion(v string) bool {
	return slices.Contains(SupportedConfigVersions, v)
}

func SupportedConfigVersionsCSV() string {
	return strings.Join(SupportedConfigVersions, ", ")
}
