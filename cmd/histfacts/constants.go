package main

// Default limits for CLI commands.
const (
	DefaultAttemptsLimit = 50
	descriptionPreview   = 80
)

// Valid output formats.
var validFormats = []string{"text", "json", "csv", "markdown"}
