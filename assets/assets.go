// Package assets embeds the default configuration and unit catalog so the
// game and its tests run without files next to the binary.
package assets

import _ "embed"

//go:embed config.yaml
var ConfigYAML []byte

//go:embed monsters.yaml
var MonstersYAML []byte
