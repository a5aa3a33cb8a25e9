// Command procsched runs the process scheduling simulator.
package main

import "github.com/sarchlab/procsched/procsched/cmd"

func main() {
	cmd.Execute()
}
