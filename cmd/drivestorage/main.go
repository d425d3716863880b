// Command drivestorage browses and edits Google Drive through gdrive:// paths.
package main

import (
	"os"

	"github.com/Jumpaku/go-drivestorage/internal/logging"
)

func main() {
	err := RootCmd.Execute()
	_ = logging.Sync()
	if err != nil {
		errPrintfln("Error: %s", err)
		os.Exit(1)
	}
}
