package main

import "github.com/samiti-foundation/server/cmd/server/cmd"

func main() {
	cmd.Execute()
}
