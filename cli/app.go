// Package cli contains all business logic needed by the CLI command.
package cli

import (
	"io"

	"github.com/urfave/cli/v2"

	"github.com/cinebot/rig/logging"
)

// CLI flags.
const (
	debugFlag     = "debug"
	logFileFlag   = "log-file"
	configFlag    = "config"
	fromFlag      = "from"
	toFlag        = "to"
	frameFlag     = "frame"
	poseFlag      = "pose"
	seedFlag      = "seed"
	chainFlag     = "chain"
	waypointsFlag = "waypoints"
	degreesFlag   = "degrees"
	durationFlag  = "duration"
	fpsFlag       = "fps"
	outFlag       = "out"
	cameraFlag    = "camera"
	gazeFlag      = "gaze"
	stateFlag     = "state"
	planFlag      = "plan"
)

var configFileFlag = &cli.PathFlag{
	Name:     configFlag,
	Aliases:  []string{"c"},
	Required: true,
	Usage:    "load the rig description from `FILE`",
}

var planFileFlag = &cli.PathFlag{
	Name:     planFlag,
	Required: true,
	Usage:    "read the plan from `FILE`",
}

var app = &cli.App{
	Name:            "cinebot",
	Usage:           "plan camera moves for a cinebot rig",
	HideHelpCommand: true,
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:    debugFlag,
			Aliases: []string{"vvv"},
			Usage:   "enable debug logging",
		},
		&cli.PathFlag{
			Name:  logFileFlag,
			Usage: "also write logs to `FILE`, rotating it as it grows",
		},
	},
	Before: setupLogging,
	After:  closeLogging,
	Commands: []*cli.Command{
		{
			Name:   "tree",
			Usage:  "print the frames of the rig and their poses in the world",
			Flags:  []cli.Flag{configFileFlag},
			Action: TreeAction,
		},
		{
			Name:      "transform",
			Usage:     "print the transform taking points in one frame to another",
			UsageText: "cinebot transform --config FILE --from FRAME --to FRAME",
			Flags: []cli.Flag{
				configFileFlag,
				&cli.StringFlag{Name: fromFlag, Required: true, Usage: "frame the points are expressed in"},
				&cli.StringFlag{Name: toFlag, Value: "ROOT", Usage: "frame to express the points in"},
			},
			Action: TransformAction,
		},
		{
			Name:      "solve",
			Usage:     "solve the joints that put a frame at a pose in the world",
			UsageText: "cinebot solve --config FILE --frame FRAME --pose x,y,z[,th,rx,ry,rz]",
			Flags: []cli.Flag{
				configFileFlag,
				&cli.StringFlag{Name: frameFlag, Required: true, Usage: "frame to move, usually the camera"},
				&cli.StringFlag{Name: poseFlag, Required: true, Usage: "target pose in the world; th is in radians"},
				&cli.Float64SliceFlag{Name: seedFlag, Usage: "joint angles in radians to start from"},
			},
			Action: SolveAction,
		},
		{
			Name:            "plan",
			Usage:           "turn recorded waypoints into a plan",
			HideHelpCommand: true,
			Subcommands: []*cli.Command{
				{
					Name:  "direct",
					Usage: "interpolate recorded joint configurations",
					Flags: []cli.Flag{
						configFileFlag,
						&cli.StringFlag{Name: chainFlag, Usage: "chain the configurations belong to; defaults to the camera's chain"},
						&cli.PathFlag{Name: waypointsFlag, Required: true, Usage: "json list of joint configurations in `FILE`"},
						&cli.BoolFlag{Name: degreesFlag, Usage: "joint configurations are in degrees"},
						&cli.Float64Flag{Name: durationFlag, Usage: "plan length in seconds; defaults to the config"},
						&cli.Float64Flag{Name: fpsFlag, Usage: "frames per second; defaults to the config"},
						&cli.PathFlag{Name: outFlag, Required: true, Usage: "write the plan to `FILE`"},
					},
					Action: PlanDirectAction,
				},
				{
					Name:  "gaze",
					Usage: "move the camera through recorded positions while looking at gaze points",
					Flags: []cli.Flag{
						configFileFlag,
						&cli.PathFlag{Name: cameraFlag, Required: true, Usage: "json list of joint configurations placing the camera in `FILE`"},
						&cli.BoolFlag{Name: degreesFlag, Usage: "joint configurations are in degrees"},
						&cli.PathFlag{Name: gazeFlag, Required: true, Usage: "json list of [x, y, z] gaze points in `FILE`"},
						&cli.Float64Flag{Name: durationFlag, Usage: "plan length in seconds; defaults to the config"},
						&cli.Float64Flag{Name: fpsFlag, Usage: "frames per second; defaults to the config"},
						&cli.PathFlag{Name: stateFlag, Usage: "also save the planner recordings to `FILE`"},
						&cli.PathFlag{Name: outFlag, Required: true, Usage: "write the plan to `FILE`"},
					},
					Action: PlanGazeAction,
				},
			},
		},
		{
			Name:   "stats",
			Usage:  "summarize the joint motion of a plan",
			Flags:  []cli.Flag{planFileFlag},
			Action: StatsAction,
		},
		{
			Name:  "plot",
			Usage: "plot the joint angles of a plan against time",
			Flags: []cli.Flag{
				planFileFlag,
				&cli.PathFlag{Name: outFlag, Required: true, Usage: "write the image to `FILE`; the format follows the extension"},
			},
			Action: PlotAction,
		},
	},
}

// NewApp returns a new app with the CLI command, flags, and action functions.
func NewApp(out, errOut io.Writer) *cli.App {
	app.Writer = out
	app.ErrWriter = errOut
	return app
}

const (
	loggerKey    = "logger"
	logCloserKey = "log-closer"
)

func setupLogging(c *cli.Context) error {
	if c.App.Metadata == nil {
		c.App.Metadata = map[string]interface{}{}
	}
	logger := logging.NewBlankLogger("cinebot")
	logger.AddAppender(logging.NewWriterAppender(c.App.ErrWriter))
	logger.SetLevel(logging.INFO)
	if c.Bool(debugFlag) {
		logger.SetLevel(logging.DEBUG)
	}
	if path := c.Path(logFileFlag); path != "" {
		appender, closer := logging.NewFileAppender(path)
		logger.AddAppender(appender)
		c.App.Metadata[logCloserKey] = closer
	}
	c.App.Metadata[loggerKey] = logger
	return nil
}

func closeLogging(c *cli.Context) error {
	closer, ok := c.App.Metadata[logCloserKey].(io.Closer)
	if !ok {
		return nil
	}
	delete(c.App.Metadata, logCloserKey)
	return closer.Close()
}

// loggerFrom returns the logger set up for the app.
func loggerFrom(c *cli.Context) logging.Logger {
	if logger, ok := c.App.Metadata[loggerKey].(logging.Logger); ok {
		return logger
	}
	return logging.NewBlankLogger("cinebot")
}
