package worddiff

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/afero"
)

// Differ compares two files line by line and returns the change script in
// the normal output format of diff(1). Only the command lines of the script
// are evaluated. The returned reader must be closed, which reports failures
// of the comparison itself.
type Differ interface {
	Diff(fs afero.Fs, oldName, newName string) (io.ReadCloser, error)
}

// DiffCommand runs an external diff program. It needs the files to be on
// the OS file system.
type DiffCommand struct {
	// Path of the program, "diff" if empty
	Path string
	// Args are passed to the program in front of the file names
	Args []string
}

func (dc DiffCommand) Diff(fs afero.Fs, oldName, newName string) (io.ReadCloser, error) {
	if _, ok := fs.(*afero.OsFs); !ok {
		return nil, fmt.Errorf("diff command needs OS file system, have %s", fs.Name())
	}
	path := dc.Path
	if path == "" {
		path = "diff"
	}
	args := make([]string, 0, len(dc.Args)+3)
	args = append(args, "-a")
	args = append(args, dc.Args...)
	args = append(args, oldName, newName)
	cmd := exec.Command(path, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to execute diff: %w", err)
	}
	if err = cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to execute diff: %w", err)
	}
	return &diffOutput{cmd: cmd, out: out, stderr: &stderr}, nil
}

type diffOutput struct {
	cmd    *exec.Cmd
	out    io.ReadCloser
	stderr *bytes.Buffer
}

func (do *diffOutput) Read(p []byte) (int, error) { return do.out.Read(p) }

func (do *diffOutput) Close() error {
	io.Copy(io.Discard, do.out)
	err := do.cmd.Wait()
	var xerr *exec.ExitError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &xerr) && xerr.ExitCode() == 1:
		return nil
	}
	if msg := strings.TrimSpace(do.stderr.String()); msg != "" {
		return fmt.Errorf("diff failed: %w: %s", err, msg)
	}
	return fmt.Errorf("diff failed: %w", err)
}

// Builtin compares files in process with a sequence matcher. It works on
// any afero file system and does not need an external program.
type Builtin struct{}

func (Builtin) Diff(fs afero.Fs, oldName, newName string) (io.ReadCloser, error) {
	a, err := readLines(fs, oldName)
	if err != nil {
		return nil, err
	}
	b, err := readLines(fs, newName)
	if err != nil {
		return nil, err
	}
	m := difflib.NewMatcherWithJunk(a, b, false, nil)
	var script bytes.Buffer
	for _, op := range m.GetOpCodes() {
		if op.Tag == 'e' {
			continue
		}
		var cmd Command
		switch op.Tag {
		case 'r':
			cmd = MakeCommand(Range{op.I1 + 1, op.I2}, Range{op.J1 + 1, op.J2})
		case 'd':
			cmd = MakeCommand(Range{op.I1 + 1, op.I2}, Gap(op.J1))
		case 'i':
			cmd = MakeCommand(Gap(op.I1), Range{op.J1 + 1, op.J2})
		}
		script.WriteString(cmd.String())
		script.WriteByte('\n')
	}
	return io.NopCloser(&script), nil
}

func readLines(fs afero.Fs, name string) ([]string, error) {
	f, err := fs.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var lines []string
	scn := bufio.NewScanner(f)
	scn.Buffer(nil, 1<<30)
	scn.Split(scanLF)
	for scn.Scan() {
		lines = append(lines, scn.Text())
	}
	if err := scn.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return lines, nil
}
