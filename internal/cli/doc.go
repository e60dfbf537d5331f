// Package cli implements the powerdash command-line interface.
//
// Each cobra command parses flags, loads the config and then hands off to a
// plain function that takes its collaborators (backend client, registry,
// output writer) as arguments, so the commands can be tested without a
// terminal:
//
//	powerdash monitor                       - Live dashboard
//	powerdash schedule [list|add|delete]    - Manage device schedules
//	powerdash records <location>            - Recorded readings as a table or JSON
//	powerdash device <location> on|off      - Send a motor command
//	powerdash location [list|add]           - Inspect or extend the locations list
//	powerdash init                          - Write powerdash.yaml
//
// # Flag Handling
//
// Global flags (--config, --json, --no-color) are defined on the root
// command. --json switches list-style commands and error output to the
// JSONEnvelope format.
package cli
