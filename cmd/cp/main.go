// Command cp imports a host file into an ext2 image.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/omarchehab98/ext2tools/ext2"
	"github.com/omarchehab98/ext2tools/ext2err"
	"github.com/omarchehab98/ext2tools/imageio"
)

func main() {
	app := &cli.App{
		Name:      "cp",
		Usage:     "Copy a host file into an ext2 image",
		ArgsUsage: "IMAGE HOST_SRC IMAGE_DEST",
		Action:    run,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	if c.NArg() != 3 {
		return cli.Exit("usage: cp <img> <host_src> <image_dest>", 1)
	}

	imgPath := c.Args().Get(0)
	hostSrc := c.Args().Get(1)
	imageDest := c.Args().Get(2)

	session, err := imageio.Load(imgPath)
	if err != nil {
		return cli.Exit(err, 1)
	}
	img, err := session.Image()
	if err != nil {
		return cli.Exit(err, 1)
	}

	content, err := imageio.ReadHostFile(hostSrc, ext2.MaxFileSize)
	if err != nil {
		return cli.Exit(err, 1)
	}

	if ferr := ext2.CopyIn(img, content, filepath.Base(hostSrc), imageDest); ferr != nil {
		return cli.Exit(ext2err.Diagnostic(c.App.Name, imageDest, ferr), 1)
	}

	if err := session.Save(); err != nil {
		return cli.Exit(err, 1)
	}
	return nil
}
