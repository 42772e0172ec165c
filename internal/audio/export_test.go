package audio

// Export internal functions for testing.
// This file is only compiled during tests (suffix _test.go).

// ParseProbeDuration exports parseProbeDuration for testing.
var ParseProbeDuration = parseProbeDuration

// FormatSeconds exports formatSeconds for testing.
var FormatSeconds = formatSeconds

// --- Dependency injection exports ---

// CommandRunner exports commandRunner interface for testing.
type CommandRunner = commandRunner

// FileStatter exports fileStatter interface for testing.
type FileStatter = fileStatter
