package enhance

// Export internal functions for testing.
// This file is only compiled during tests (suffix _test.go).

// RumbleCutoff exports rumbleCutoff for testing.
var RumbleCutoff = rumbleCutoff

// CommandRunner exports commandRunner interface for testing.
type CommandRunner = commandRunner
