package main

import "github.com/maty-millien/pushit/cmd"

func main() {
	cmd.Execute()
}
