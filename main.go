package main

import "github.com/relgate-io/relgate/cmd"

func main() {
	cmd.Execute()
}
