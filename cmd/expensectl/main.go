// Command expensectl inspects and edits an expensewise SQLite database
// from the terminal.
package main

import "os"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
