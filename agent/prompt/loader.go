package prompt

import (
	_ "embed"
	"strings"
)

//go:embed template/system.txt
var systemRaw string

// System returns the fixed instruction that opens every model call.
// The embed is compile-time; trimming is cheap, so this is safe to call
// per turn.
func System() string {
	return strings.TrimSpace(systemRaw)
}
