package main

import "github.com/nfrund/propmgr/cmd/propctl/cmd"

func main() {
	cmd.Execute()
}
