package main

import (
	"os"

	"github.com/vkngwrapper/instbuf/cmd/bufplan/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
