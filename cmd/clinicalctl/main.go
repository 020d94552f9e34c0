// clinicalctl evaluates scoring instruments, classifies Boston Criteria,
// summarizes trials and runs the servers from the command line.
//
// Usage:
//
//	clinicalctl instruments [id]
//	clinicalctl evaluate <instrument> --set gcs=5-12 --set age=82
//	clinicalctl classify --age 72 --presentation --lobar 2
//	clinicalctl trials
//	clinicalctl summarize <trial-id>
//	clinicalctl rates --treatment 45% --control 20%
//	clinicalctl audit list|export|import
//	clinicalctl serve [--stdio]
//	clinicalctl setup [--status]
package main

import (
	"fmt"
	"os"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
