package cmd

import (
	"github.com/urfave/cli"
)

// NewApp assembles the command line application
func NewApp() *cli.App {
	// -v selects verbose logging rather than the version
	cli.VersionFlag = cli.BoolFlag{
		Name:  "version",
		Usage: "print only the version",
	}

	app := cli.NewApp()
	app.Name = "pathtracer"
	app.Usage = "render triangle scenes with Monte Carlo path tracing"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:  "v",
			Usage: "enable verbose logging",
		},
		cli.BoolFlag{
			Name:  "vv",
			Usage: "enable even more verbose logging",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:  "render",
			Usage: "render a single frame",
			Description: `
Render a built-in scene or an OBJ, PLY or glTF file and write the tone
mapped frame as a PNG. Values from --config are overridden by any flag given
on the command line.`,
			Flags:  renderFlags(),
			Action: RenderFrame,
		},
		{
			Name:   "scenes",
			Usage:  "list the built-in scenes",
			Action: ListScenes,
		},
	}
	return app
}

func renderFlags() []cli.Flag {
	return []cli.Flag{
		cli.StringFlag{
			Name:  "config, c",
			Usage: "JSON render configuration file",
		},
		cli.StringFlag{
			Name:  "scene, s",
			Usage: "built-in scene name or path to an .obj, .ply, .gltf or .glb file",
		},
		cli.IntFlag{
			Name:  "width",
			Usage: "frame width",
		},
		cli.IntFlag{
			Name:  "height",
			Usage: "frame height",
		},
		cli.IntFlag{
			Name:  "spp",
			Usage: "samples per pixel",
		},
		cli.BoolFlag{
			Name:  "direct-only",
			Usage: "only gather direct lighting",
		},
		cli.IntFlag{
			Name:  "light-samples",
			Usage: "shadow ray budget per hit",
		},
		cli.Float64Flag{
			Name:  "continuation",
			Usage: "russian roulette path continuation probability in (0, 1]",
		},
		cli.IntFlag{
			Name:  "max-depth",
			Usage: "maximum number of bounces; 0 for no limit",
		},
		cli.IntFlag{
			Name:  "workers",
			Usage: "number of render workers; 0 for one per CPU",
		},
		cli.IntFlag{
			Name:  "tile-size",
			Usage: "tile edge length in pixels",
		},
		cli.Int64Flag{
			Name:  "seed",
			Usage: "base random seed",
		},
		cli.StringFlag{
			Name:  "out, o",
			Usage: "image filename for the rendered frame",
		},
	}
}
