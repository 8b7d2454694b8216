// Package output serializes finalized composite templates
// as JSON, YAML, the bare format string, or rendered text.
package output
