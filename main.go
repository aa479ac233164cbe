package main

import "github.com/tabdash/tabdash-cli/cmd"

func main() {
	cmd.Execute()
}
