// Command mkdir creates a directory within an ext2 image.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/omarchehab98/ext2tools/ext2"
	"github.com/omarchehab98/ext2tools/ext2err"
	"github.com/omarchehab98/ext2tools/imageio"
)

func main() {
	app := &cli.App{
		Name:      "mkdir",
		Usage:     "Create a directory within an ext2 image",
		ArgsUsage: "IMAGE ABS_PATH",
		Action:    run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	if c.NArg() != 2 {
		return cli.Exit("usage: mkdir <img> <abs_path>", 1)
	}

	imgPath := c.Args().Get(0)
	path := strings.TrimRight(c.Args().Get(1), "/")

	session, err := imageio.Load(imgPath)
	if err != nil {
		return cli.Exit(err, 1)
	}
	img, err := session.Image()
	if err != nil {
		return cli.Exit(err, 1)
	}

	if ferr := ext2.MakeDirectory(img, path); ferr != nil {
		return cli.Exit(ext2err.Diagnostic(c.App.Name, path, ferr), 1)
	}

	if err := session.Save(); err != nil {
		return cli.Exit(err, 1)
	}
	return nil
}
