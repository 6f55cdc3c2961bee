// Command dump prints a read-only diagnostic view of an ext2 image.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/omarchehab98/ext2tools/ext2"
	"github.com/omarchehab98/ext2tools/imageio"
)

func main() {
	app := &cli.App{
		Name:      "dump",
		Usage:     "Print a diagnostic dump of an ext2 image",
		ArgsUsage: "IMAGE",
		Action:    run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("usage: dump <img>", 1)
	}

	session, err := imageio.Load(c.Args().Get(0))
	if err != nil {
		return cli.Exit(err, 1)
	}
	img, err := session.Image()
	if err != nil {
		return cli.Exit(err, 1)
	}

	ext2.Dump(img, session.Stream(), os.Stdout)
	return nil
}
