// main is the entry point for the winsfinder CLI.
package main

import (
	"fmt"
	"os"

	"winsfinder/cmd"
	"winsfinder/internal/winstore"
)

func main() {
	err := cmd.Execute()
	winstore.CloseStore()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
