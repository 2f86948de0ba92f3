package main

import (
	"github.com/iWorld-y/research_radar/app/research_radar/pkg/cli"
	"github.com/iWorld-y/research_radar/app/research_radar/pkg/pipeline"
)

func main() {
	cli.Execute(pipeline.FrameworkCode)
}
