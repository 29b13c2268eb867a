package main

import "cattus/cmd/client/cmd"

func main() {
	cmd.Execute()
}
