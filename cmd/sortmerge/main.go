package main

import (
	"fmt"
	"os"

	"github.com/wisepulse/sortmerge/cmd/sortmerge/root"
)

func main() {
	if err := root.Sortmerge.Exec(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "sortmerge: %s\n", err)
		os.Exit(1)
	}
}
