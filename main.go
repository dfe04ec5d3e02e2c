// Package main is the entry point for the nxsort CLI.
package main

import "nxsort.dev/pkg/nxsort/cmd"

func main() {
	cmd.Execute()
}
