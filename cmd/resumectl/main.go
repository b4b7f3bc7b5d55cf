// Command resumectl exports, scores and drafts resumes from JSON files without the API.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
