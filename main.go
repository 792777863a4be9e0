// Package main is the entry point for the cricmetrics CLI, which ingests
// ball-by-ball T20 match records and computes player and team metrics.
package main

import "github.com/pable/cricmetrics/cmd"

func main() {
	cmd.Execute()
}
