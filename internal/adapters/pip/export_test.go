package pip

// ClassifyOutput exposes stderr classification for tests.
var ClassifyOutput = classifyOutput
