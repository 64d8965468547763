package main

import (
	"github.com/Paintersrp/singer/internal/cli"
	"github.com/Paintersrp/singer/internal/metrics"
)

func main() {
	metrics.EmitBuildInfo()
	cli.Execute()
}
