// tagctl is the operator CLI for taggate: offline tagging, API user
// management and database migrations.
package main

import (
	"os"

	"github.com/kailas-cloud/taggate/cmd/tagctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
