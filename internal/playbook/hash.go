package playbook

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"

	"github.com/aescanero/netqa-router/internal/citation"
)

// StepHash returns the SHA-256 hex digest of the normalized steps. Each step
// contributes "check\tcommands\tcitations" with commands and "doc:section"
// refs sorted and pipe-joined, so container order never changes the hash.
func StepHash(steps []Step) string {
	lines := make([]string, len(steps))
	for i, s := range steps {
		lines[i] = normalizeStep(s)
	}
	sum := sha256.Sum256([]byte(strings.Join(lines, "\n")))
	return hex.EncodeToString(sum[:])
}

func normalizeStep(s Step) string {
	cmds := make([]string, len(s.Commands))
	copy(cmds, s.Commands)
	sort.Strings(cmds)

	return strings.TrimSpace(s.Check) + "\t" +
		strings.Join(cmds, "|") + "\t" +
		citation.SortedRefs(s.Citations, "|")
}
