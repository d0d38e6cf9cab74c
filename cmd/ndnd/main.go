package main

import (
	"github.com/nfdgo/ndnd/cmd"
)

// Initializes and runs the NDN daemon command-line interface to start the Named Data Networking service.
func main() {
	cmd.CmdNDNd.Execute()
}
