package main

import "github.com/wrenfolk/edascope/cmd"

func main() {
	cmd.Execute()
}
