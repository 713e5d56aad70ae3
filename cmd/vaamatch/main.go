// Command vaamatch matches a voter against candidates or parties described
// in a dataset file and prints the ranked results.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
