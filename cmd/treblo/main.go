package main

import "github.com/taskie/treblo/cmd/treblo/cmd"

func main() {
	cmd.Execute()
}
