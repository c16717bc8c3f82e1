package main

import "github.com/lepinkainen/mediacat/cmd"

var execute = cmd.Execute

func main() {
	execute()
}
