// SPDX-License-Identifier: MPL-2.0

// Command briefing chooses the pre-battle agenda for the player's ship.
package main

import cmd "github.com/wows-briefing/briefing/cmd/briefing"

func main() {
	cmd.Execute()
}
