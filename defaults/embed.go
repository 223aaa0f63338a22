// Package defaults holds the packaged settings tier bundled with the npc
// binary.
package defaults

import "embed"

// FS contains settings.yaml, the stock systems and their character types.
//
//go:embed settings.yaml systems types
var FS embed.FS
