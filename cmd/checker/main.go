// Command checker scans an ext2 image for inconsistencies, repairs them in
// place, and reports what it fixed.
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
		Name:      "checker",
		Usage:     "Check and repair an ext2 image",
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
		return cli.Exit("usage: checker <img>", 1)
	}

	session, err := imageio.Load(c.Args().Get(0))
	if err != nil {
		return cli.Exit(err, 1)
	}
	img, err := session.Image()
	if err != nil {
		return cli.Exit(err, 1)
	}

	fixes := ext2.Check(img)
	for _, f := range fixes {
		fmt.Println(f.Message)
	}
	fmt.Printf("%d fix(es) applied\n", len(fixes))

	if err := session.Save(); err != nil {
		return cli.Exit(err, 1)
	}
	return nil
}
