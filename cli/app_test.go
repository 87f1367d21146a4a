package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"go.viam.com/test"

	"github.com/cinebot/rig/config"
	"github.com/cinebot/rig/logging"
	"github.com/cinebot/rig/referenceframe"
)

const testRig = "testdata/rig.json"

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	err := NewApp(&out, &errOut).Run(append([]string{"cinebot"}, args...))
	return out.String(), errOut.String(), err
}

func TestTreeAndTransform(t *testing.T) {
	out, _, err := runCLI(t, "tree", "--config", testRig)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "arm_link6")
	test.That(t, out, test.ShouldContainSubstring, "camera")
	test.That(t, out, test.ShouldContainSubstring, "subject")

	out, _, err = runCLI(t, "transform", "-c", testRig, "--from", "dolly")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "dolly in ROOT: {X:0.4000 Y:-0.2000 Z:0.7000")

	out, _, err = runCLI(t, "transform", "-c", testRig, "--from", "subject", "--to", "dolly")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "subject in dolly: {X:0.3000 Y:-0.6000 Z:0.1000")

	_, _, err = runCLI(t, "transform", "-c", testRig, "--from", "boom")
	test.That(t, err, test.ShouldNotBeNil)
	_, _, err = runCLI(t, "tree", "--config", "testdata/missing.json")
	test.That(t, err, test.ShouldNotBeNil)
	_, _, err = runCLI(t, "tree")
	test.That(t, err, test.ShouldNotBeNil)
}

func TestSolve(t *testing.T) {
	logger := logging.NewTestLogger(t)
	cfg, err := config.Read(testRig, logger)
	test.That(t, err, test.ShouldBeNil)
	kt, err := config.BuildTree(cfg, logger)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, kt.SetChainState("arm", referenceframe.FloatsToInputs([]float64{0.5, 0.4, 1.7, 0, 0.5, 0})), test.ShouldBeNil)
	target, err := kt.Transform("camera", referenceframe.Root)
	test.That(t, err, test.ShouldBeNil)
	pt, aa := target.Point(), target.Orientation().AxisAngles()
	pose := fmt.Sprintf("%.12f,%.12f,%.12f,%.12f,%.12f,%.12f,%.12f", pt.X, pt.Y, pt.Z, aa.Theta, aa.RX, aa.RY, aa.RZ)

	out, errOut, err := runCLI(t, "solve", "-c", testRig, "--frame", "camera", "--pose", pose)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "arm radians:")
	test.That(t, out, test.ShouldContainSubstring, "arm degrees:")
	test.That(t, errOut, test.ShouldNotContainSubstring, "Warning")

	out, _, err = runCLI(t, "solve", "-c", testRig, "--frame", "camera", "--pose", pose, "--seed", "0.5,0.4,1.7,0,0.5,0")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "arm radians:")

	_, _, err = runCLI(t, "solve", "-c", testRig, "--frame", "subject", "--pose", "0,0,0")
	test.That(t, err, test.ShouldWrap, referenceframe.ErrNoChainFound)

	_, _, err = runCLI(t, "solve", "-c", testRig, "--frame", "camera", "--pose", "0,0")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "bad --pose")
}

func TestPlanDirect(t *testing.T) {
	dir := t.TempDir()
	planPath := filepath.Join(dir, "direct.json")

	out, _, err := runCLI(t, "plan", "direct", "-c", testRig,
		"--waypoints", "testdata/waypoints.json", "--degrees", "--out", planPath)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "wrote 10 frames of arm to "+planPath)

	out, _, err = runCLI(t, "plan", "direct", "-c", testRig,
		"--waypoints", "testdata/waypoints.json", "--degrees", "--fps", "20", "--out", planPath)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "wrote 20 frames")

	out, _, err = runCLI(t, "stats", "--plan", planPath)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "arm: 20 frames at 20.00 fps")
	test.That(t, out, test.ShouldContainSubstring, "60.00")

	pngPath := filepath.Join(dir, "direct.png")
	out, _, err = runCLI(t, "plot", "--plan", planPath, "--out", pngPath)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "wrote "+pngPath)
	info, err := os.Stat(pngPath)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, info.Size(), test.ShouldBeGreaterThan, 0)

	// radians far past the default joint limits are rejected while replaying
	_, _, err = runCLI(t, "plan", "direct", "-c", testRig,
		"--waypoints", "testdata/waypoints.json", "--out", planPath)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "waypoint 1")
}

func TestPlanGaze(t *testing.T) {
	dir := t.TempDir()
	planPath := filepath.Join(dir, "gaze.json")
	statePath := filepath.Join(dir, "state.json")

	out, errOut, err := runCLI(t, "plan", "gaze", "-c", testRig,
		"--camera", "testdata/camera.json", "--gaze", "testdata/gaze.json",
		"--state", statePath, "--out", planPath)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "wrote 10 frames of arm to "+planPath)
	test.That(t, errOut, test.ShouldContainSubstring, "planned camera path")
	test.That(t, errOut, test.ShouldNotContainSubstring, "Warning")

	planData, err := os.ReadFile(planPath)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, string(planData), test.ShouldContainSubstring, `"camera_poses"`)
	stateData, err := os.ReadFile(statePath)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, string(stateData), test.ShouldContainSubstring, `"gaze_points"`)

	out, _, err = runCLI(t, "stats", "--plan", planPath)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, out, test.ShouldContainSubstring, "arm: 10 frames at 10.00 fps")
}

func TestLogging(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "cinebot.log")

	_, errOut, err := runCLI(t, "--debug", "--log-file", logPath, "plan", "direct", "-c", testRig,
		"--waypoints", "testdata/waypoints.json", "--degrees", "--out", filepath.Join(dir, "plan.json"))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, errOut, test.ShouldContainSubstring, "recorded configuration")
	test.That(t, errOut, test.ShouldContainSubstring, "planned joint space path")

	data, err := os.ReadFile(logPath)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, string(data), test.ShouldContainSubstring, "planned joint space path")

	_, errOut, err = runCLI(t, "plan", "direct", "-c", testRig,
		"--waypoints", "testdata/waypoints.json", "--degrees", "--out", filepath.Join(dir, "plan.json"))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, errOut, test.ShouldNotContainSubstring, "recorded configuration")
}
