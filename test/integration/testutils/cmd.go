package testutils

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strings"
)

// RunOpsim executes the opsim binary with a whitespace separated argument string.
// Use RunOpsimArgs when a single argument needs to keep its spaces.
func RunOpsim(ctx context.Context, env []string, binary, cmdArgs string, nolog bool) (stdout, stderr []byte, err error) {
	return RunOpsimArgs(ctx, env, binary, strings.Fields(cmdArgs), nolog)
}

// RunOpsimArgs executes the opsim binary with already split arguments.
// env entries are appended after the process environment so they take precedence.
func RunOpsimArgs(ctx context.Context, env []string, binary string, args []string, nolog bool) (stdout, stderr []byte, err error) {
	cmdEnv := append(os.Environ(), env...)
	if nolog {
		cmdEnv = append(cmdEnv, "OPSIM_NO_LOG=true")
	}

	var outData, errData bytes.Buffer
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Stdout = &outData
	cmd.Stderr = &errData
	cmd.Env = cmdEnv

	err = cmd.Run()
	return outData.Bytes(), errData.Bytes(), err
}
