package main

import "github.com/gnames/gntree/cmd"

func main() {
	cmd.Execute()
}
