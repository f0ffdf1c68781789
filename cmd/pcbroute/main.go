// Command pcbroute is the CLI entry point for the PCB auto-router:
// load a board JSON document, route or rip-up-and-reroute connections
// against it, and print the resulting board state back out.
package main

import "os"

func main() {
	os.Exit(Execute())
}
