package logging

import "github.com/charmbracelet/log"

// shortIDLen is the length of IDs shown outside debug logging.
const shortIDLen = 8

// FormatID returns id in full when debug logging is enabled and truncated to
// its first eight characters otherwise. Batch and node IDs are UUIDs, whose
// first group is enough to tell them apart in operational logs.
func FormatID(id string) string {
	if stderrLogger.GetLevel() <= log.DebugLevel || len(id) <= shortIDLen {
		return id
	}
	return id[:shortIDLen]
}
