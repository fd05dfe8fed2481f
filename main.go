package main

import "github.com/statloom/censuskit/cmd"

func main() {
	cmd.Execute()
}
