package main

import "ahb-manager/cmd"

func main() {
	cmd.Execute()
}
