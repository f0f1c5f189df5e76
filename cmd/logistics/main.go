// Command logistics manages the logistics record store from the shell.
package main

import "github.com/mesh-intelligence/logistics/internal/cli"

func main() {
	cli.Execute()
}
