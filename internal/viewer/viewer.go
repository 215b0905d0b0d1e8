// Package viewer opens the decrypted workbook in a desktop application.
package viewer

import (
	"fmt"
	"os/exec"
	"strings"
)

// DefaultCommand opens the workbook in LibreOffice Calc.
const DefaultCommand = "libreoffice --calc"

// Viewer shows a file to the user without waiting for them to close it.
type Viewer interface {
	Open(path string) error
}

// Noop ignores every Open.
type Noop struct{}

// Open does nothing.
func (Noop) Open(string) error { return nil }

// Command launches an external program with the file as its last argument.
type Command struct {
	Name string
	Args []string
}

// New parses a command line such as "libreoffice --calc". An empty line
// returns Noop.
func New(commandLine string) Viewer {
	fields := strings.Fields(commandLine)
	if len(fields) == 0 {
		return Noop{}
	}
	return &Command{Name: fields[0], Args: fields[1:]}
}

// Open starts the program and returns once it has started.
func (c *Command) Open(path string) error {
	args := append(append([]string(nil), c.Args...), path)
	cmd := exec.Command(c.Name, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting %s: %w", c.Name, err)
	}
	go func() { _ = cmd.Wait() }()
	return nil
}
