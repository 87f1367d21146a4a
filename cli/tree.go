package cli

import (
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"

	"github.com/cinebot/rig/referenceframe"
	"github.com/cinebot/rig/spatialmath"
	"github.com/cinebot/rig/utils"
)

// TreeAction is the corresponding Action for 'tree'.
func TreeAction(c *cli.Context) error {
	_, kt, err := loadRig(c, loggerFrom(c))
	if err != nil {
		return err
	}
	printf(c.App.Writer, "%s", kt)
	printf(c.App.Writer, "%s", kt.PoseTable())
	return nil
}

// TransformAction is the corresponding Action for 'transform'.
func TransformAction(c *cli.Context) error {
	_, kt, err := loadRig(c, loggerFrom(c))
	if err != nil {
		return err
	}
	pose, err := kt.Transform(c.String(fromFlag), c.String(toFlag))
	if err != nil {
		return err
	}
	printf(c.App.Writer, "%s in %s: %s", c.String(fromFlag), c.String(toFlag), spatialmath.PoseToString(pose))
	printf(c.App.Writer, "%s", spatialmath.PoseToMatrix(pose))
	return nil
}

// SolveAction is the corresponding Action for 'solve'.
func SolveAction(c *cli.Context) error {
	logger := loggerFrom(c)
	_, kt, err := loadRig(c, logger)
	if err != nil {
		return err
	}
	target, err := spatialmath.ParsePose(c.String(poseFlag))
	if err != nil {
		return errors.Wrapf(err, "bad --%s", poseFlag)
	}
	frame := c.String(frameFlag)

	// find the chain that will move so its state can be seeded and reported
	chainName := ""
	for name := frame; name != ""; {
		if chainName = chainOwning(kt, name); chainName != "" {
			break
		}
		if name, err = kt.Parent(name); err != nil {
			return err
		}
	}
	if chainName == "" {
		return errors.Wrapf(referenceframe.ErrNoChainFound, "frame %q", frame)
	}
	if seed := c.Float64Slice(seedFlag); len(seed) > 0 {
		if err := kt.SetChainState(chainName, referenceframe.FloatsToInputs(seed)); err != nil {
			return errors.Wrapf(err, "bad --%s", seedFlag)
		}
	}

	if err := kt.SetTransform(frame, target); err != nil {
		return err
	}
	joints, err := kt.ChainState(chainName)
	if err != nil {
		return err
	}
	printf(c.App.Writer, "%s radians: %.6f", chainName, referenceframe.InputsToFloats(joints))
	printf(c.App.Writer, "%s degrees: %.2f", chainName, referenceframe.InputsToDegrees(joints))
	reached, err := kt.Transform(frame, referenceframe.Root)
	if err != nil {
		return err
	}
	if !spatialmath.PoseAlmostCoincidentEps(reached, target, 1e-6) {
		warningf(c.App.ErrWriter, "%s reached %s, off by %.3g degrees", frame, spatialmath.PoseToString(reached),
			utils.RadToDeg(spatialmath.OrientationBetween(reached.Orientation(), target.Orientation()).AxisAngles().Theta))
	}
	return nil
}

// chainOwning returns the chain whose links include the named frame, or "".
func chainOwning(kt *referenceframe.KinematicTree, frame string) string {
	for _, name := range kt.ChainNames() {
		chain, err := kt.Chain(name)
		if err != nil {
			continue
		}
		for _, link := range chain.Links() {
			if link.Name == frame {
				return name
			}
		}
	}
	return ""
}
