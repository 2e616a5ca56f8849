package main

import "github.com/oshokin/breathe-build/cmd/breathe-build/cmd"

func main() {
	cmd.Execute()
}
