// Command ln creates a hard or symbolic link within an ext2 image.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/omarchehab98/ext2tools/ext2"
	"github.com/omarchehab98/ext2tools/ext2err"
	"github.com/omarchehab98/ext2tools/imageio"
)

func main() {
	app := &cli.App{
		Name:      "ln",
		Usage:     "Link a file within an ext2 image",
		ArgsUsage: "IMAGE IMAGE_SRC IMAGE_DEST",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "s", Usage: "create a symbolic link instead of a hard link"},
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	if c.NArg() != 3 {
		return cli.Exit("usage: ln [-s] <img> <image_src> <image_dest>", 1)
	}

	imgPath := c.Args().Get(0)
	src := c.Args().Get(1)
	dest := c.Args().Get(2)

	session, err := imageio.Load(imgPath)
	if err != nil {
		return cli.Exit(err, 1)
	}
	img, err := session.Image()
	if err != nil {
		return cli.Exit(err, 1)
	}

	var ferr ext2err.Error
	if c.Bool("s") {
		ferr = ext2.LinkSymbolic(img, src, dest)
	} else {
		ferr = ext2.LinkHard(img, src, dest)
	}
	if ferr != nil {
		return cli.Exit(ext2err.Diagnostic(c.App.Name, dest, ferr), 1)
	}

	if err := session.Save(); err != nil {
		return cli.Exit(err, 1)
	}
	return nil
}
