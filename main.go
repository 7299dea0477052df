package main

import "lyscore/cmd"

func main() {
	cmd.Execute()
}
