// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/champsim/configure/cmd/champsim-configure"

func main() {
	cmd.Execute()
}
