package main

import (
	"context"
	"flag"
	"os"

	"github.com/dmitrijs2005/trainconf/internal/app"
	"github.com/dmitrijs2005/trainconf/internal/flagx"
)

func main() {

	ctx := context.Background()

	docPath := flagx.ConfigPathFlag()

	var dump bool
	fs := flag.NewFlagSet("trainconf", flag.ExitOnError)
	fs.BoolVar(&dump, "dump", false, "print the resolved settings to stdout")
	_ = fs.Parse(flagx.FilterArgs(os.Args[1:], []string{"-dump"}))

	os.Exit(app.NewApp(docPath, dump).Run(ctx))

}
