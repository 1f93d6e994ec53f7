package main

import (
	"github.com/lsst-dm/curation-tools/cmd/curation/cmd"
)

func main() {
	cmd.Execute()
}
