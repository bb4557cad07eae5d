// ============================================================================
// trump - expression language front-end
// ============================================================================
//
// Package:     version
// Description: Central version management for the CLI and its components
// Author:      abyanmajid
// Created:     2026-10-17
// License:     MIT
// ============================================================================

package version

import (
	"fmt"
	"runtime"
)

// Version constants for trump components
const (
	// Platform version
	Platform = "0.1.0"

	// Component versions
	Parser   = "0.1.0"
	Inspect  = "0.1.0"
	History  = "0.1.0"
	Document = "1.0.0"
)

// Build metadata, overridden at link time with -ldflags "-X ...".
var (
	Commit    = "unknown"
	BuildDate = "unknown"
)

// ComponentVersion returns the version for a given component name
func ComponentVersion(name string) string {
	switch name {
	case "parser":
		return Parser
	case "inspect":
		return Inspect
	case "history":
		return History
	case "document":
		return Document
	default:
		return Platform
	}
}

// Info describes the running binary
type Info struct {
	Version   string `json:"version" yaml:"version"`
	Commit    string `json:"commit" yaml:"commit"`
	BuildDate string `json:"build_date" yaml:"build_date"`
	GoVersion string `json:"go_version" yaml:"go_version"`
	Platform  string `json:"platform" yaml:"platform"`
	Document  string `json:"document_format" yaml:"document_format"`
}

// Get returns the build information of the running binary
func Get() Info {
	return Info{
		Version:   Platform,
		Commit:    Commit,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
		Document:  Document,
	}
}

// String returns a one-line summary
func (i Info) String() string {
	return fmt.Sprintf("trump %s (commit %s, built %s, %s, %s)",
		i.Version, i.Commit, i.BuildDate, i.GoVersion, i.Platform)
}
