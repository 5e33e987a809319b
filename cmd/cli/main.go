// backuplog - daily backup log analyzer
//
// backuplog locates the primary and offsite backup logs of a day and reports
// when each backup started and ended.
package main

import (
	"os"

	"github.com/ccollicutt/backuplog/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
