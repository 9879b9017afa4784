package main

import "github.com/oshokin/easy-scpi/cmd/scpi/cmd"

func main() {
	cmd.Execute()
}
