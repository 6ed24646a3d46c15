// Package configs provides embedded configuration templates for
// snowlog's daemons.
//
// Templates are embedded at build time with //go:embed so they ship
// inside the binary regardless of how it was installed. `robotd
// config init` writes RobotdConfigTemplate next to the daemon; edit
// the .yaml files here and rebuild to change what it produces.
package configs

import _ "embed"

// RobotdConfigTemplate is the example configuration written by
// `robotd config init`. It documents every knob the daemon reads,
// including the log rotation settings.
//
//go:embed robotd.example.yaml
var RobotdConfigTemplate string
