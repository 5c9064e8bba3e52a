package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"
)

// Version is set during build using ldflags
var Version = "dev"

func main() {
	app := &cli.Command{
		Name:    "inplace-demo",
		Version: Version,
		Usage:   "Serve and render click-to-edit fields backed by a pluggable store",
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			serveCmd,
			renderCmd,
			openapiCmd,
			{
				Name:  "version",
				Usage: "Print the version information",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					fmt.Printf("inplace-demo version %s\n", cmd.Root().Version)
					return nil
				},
			},
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
