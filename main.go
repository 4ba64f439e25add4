package main

import "github.com/kozaktomas/face-shell/cmd"

func main() {
	cmd.Execute()
}
