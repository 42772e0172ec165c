package cli

// Export internal functions for testing.

// RunSplit exports runSplit for testing.
var RunSplit = runSplit

// RunClean exports runClean for testing.
var RunClean = runClean

// RunTranscribe exports runTranscribe for testing.
var RunTranscribe = runTranscribe

// RunConfigSet exports runConfigSet for testing.
var RunConfigSet = runConfigSet

// RunConfigGet exports runConfigGet for testing.
var RunConfigGet = runConfigGet

// RunConfigList exports runConfigList for testing.
var RunConfigList = runConfigList

// ClampParallel exports clampParallel for testing.
var ClampParallel = clampParallel

// IsValidConfigKey exports isValidConfigKey for testing.
var IsValidConfigKey = isValidConfigKey

// ValidConfigKeys exports validConfigKeys for testing.
var ValidConfigKeys = validConfigKeys

// MaskIfSecret exports maskIfSecret for testing.
var MaskIfSecret = maskIfSecret

// RenderPlanTable exports renderPlanTable for testing.
var RenderPlanTable = renderPlanTable

// RenderTable exports renderTable for testing.
var RenderTable = renderTable

// ProgressPrinter exports progressPrinter for testing.
var ProgressPrinter = progressPrinter

// WarnLongInputs exports warnLongInputs for testing.
var WarnLongInputs = warnLongInputs
