package main

import "github.com/teamup-uiuc/teamup/cmd/teamupd/cmd"

func main() {
	cmd.Execute()
}
