// Command schedsim simulates CPU-scheduling policies: batch comparisons
// from the command line or an interactive session over HTTP.
package main

import (
	"github.com/schedlab/schedsim/schedsim/cmd"
)

func main() {
	cmd.Execute()
}
