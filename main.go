package main

import "github.com/yotaki/bancheck/cmd"

func main() {
	cmd.Execute()
}
