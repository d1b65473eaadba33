// Copyright © 2024 The SLIP authors

package main

import "github.com/slip-lang/slip/cmd"

func main() {
	cmd.Execute()
}
