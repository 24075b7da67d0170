package main

import "github.com/bytewatt/loglingo/cmd"

func main() {
	cmd.Execute()
}
