package shell

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrUnknownCommand = errors.New("shell: unknown command")
	ErrBadHeader      = errors.New("shell: expected \"<width> <height>\"")
)

// Command is one line of input from the player.
type Command int

const (
	CmdPiece Command = iota
	CmdRotate
	CmdLeft
	CmdRight
	CmdDown
	CmdBreak
	CmdExit
)

// commandNames is indexed by Command.
var commandNames = [...]string{
	CmdPiece:  "piece",
	CmdRotate: "rotate",
	CmdLeft:   "left",
	CmdRight:  "right",
	CmdDown:   "down",
	CmdBreak:  "break",
	CmdExit:   "exit",
}

var commandsByName = func() map[string]Command {
	m := make(map[string]Command, len(commandNames))
	for c, name := range commandNames {
		m[name] = Command(c)
	}
	return m
}()

func (c Command) String() string {
	if c >= 0 && int(c) < len(commandNames) {
		return commandNames[c]
	}
	return fmt.Sprintf("Command(%d)", int(c))
}

// ParseCommand splits a line into a command and its optional argument.
// Only "piece" takes an argument ("piece T"); otherwise the kind comes on
// the next line.
func ParseCommand(line string) (Command, string, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return 0, "", fmt.Errorf("%w: empty line", ErrUnknownCommand)
	}
	cmd, ok := commandsByName[fields[0]]
	if !ok {
		return 0, "", fmt.Errorf("%w: %q", ErrUnknownCommand, fields[0])
	}
	switch {
	case len(fields) == 1:
		return cmd, "", nil
	case cmd == CmdPiece && len(fields) == 2:
		return cmd, fields[1], nil
	}
	return 0, "", fmt.Errorf("%w: unexpected arguments in %q", ErrUnknownCommand, line)
}

// ParseDimensions reads the "<width> <height>" header line.
func ParseDimensions(line string) (width, height int, err error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("%w, got %q", ErrBadHeader, line)
	}
	if width, err = strconv.Atoi(fields[0]); err != nil {
		return 0, 0, fmt.Errorf("%w: width: %v", ErrBadHeader, err)
	}
	if height, err = strconv.Atoi(fields[1]); err != nil {
		return 0, 0, fmt.Errorf("%w: height: %v", ErrBadHeader, err)
	}
	return width, height, nil
}
