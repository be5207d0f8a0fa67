// Command pathq inspects JSON facts through typed path expressions: it lists
// the path each fact is given by the dynamic factory and evaluates condition
// sets written in YAML.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
