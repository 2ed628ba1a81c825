// Package main provides the entry point for the aeroharvest CLI.
//
// aeroharvest crawls the alphabetical airport-code index pages of a
// reference site, extracts one structured record per airport detail page,
// and emits the collected records as JSON.
//
// Usage:
//
//	aeroharvest harvest --out airports.json
//	aeroharvest serve
//
// See --help for all available options.
package main

// main is the entry point for aeroharvest.
func main() {
	Execute()
}
