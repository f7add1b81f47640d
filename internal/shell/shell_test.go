package shell_test

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/blockfall/internal/game"
	"github.com/robalobadob/blockfall/internal/shell"
)

func input(lines ...string) *strings.Reader {
	return strings.NewReader(strings.Join(lines, "\n") + "\n")
}

// transcript joins rendered grids the way the shell prints them.
func transcript(grids ...string) string {
	var b strings.Builder
	for _, g := range grids {
		b.WriteString(g)
		b.WriteString("\n\n")
	}
	return b.String()
}

func grid(rows ...string) string { return strings.Join(rows, "\n") }

var empty4x4 = grid("- - - -", "- - - -", "- - - -", "- - - -")

func run(t *testing.T, in *strings.Reader, opts ...shell.Option) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := shell.New(in, &out, opts...).Run(context.Background())
	return out.String(), err
}

func TestRunDropsAndLocks(t *testing.T) {
	out, err := run(t, input("4 4", "piece", "O", "down", "down", "exit"))
	require.NoError(t, err)

	assert.Equal(t, transcript(
		empty4x4,
		grid("- 0 0 -", "- 0 0 -", "- - - -", "- - - -"),
		grid("- - - -", "- 0 0 -", "- 0 0 -", "- - - -"),
		grid("- - - -", "- - - -", "- 0 0 -", "- 0 0 -"),
	), out)
}

func TestRunGameOverWaitsForNextCommand(t *testing.T) {
	full := grid("- 0 0 -", "- 0 0 -", "- 0 0 -", "- 0 0 -")

	out, err := run(t, input("4 4", "piece", "O", "down", "down", "piece", "O", "down", "down"))
	require.NoError(t, err)

	assert.Equal(t, transcript(
		empty4x4,
		grid("- 0 0 -", "- 0 0 -", "- - - -", "- - - -"),
		grid("- - - -", "- 0 0 -", "- 0 0 -", "- - - -"),
		grid("- - - -", "- - - -", "- 0 0 -", "- 0 0 -"),
		full,
		full,
	)+"Game Over!\n", out)
}

func TestRunBreakClearsRows(t *testing.T) {
	out, err := run(t, input(
		"4 6",
		"piece O", "left", "down", "down", "down",
		"piece O", "right", "down", "down", "down",
		"break",
		"exit",
	))
	require.NoError(t, err)

	grids := strings.Split(strings.TrimSuffix(out, "\n\n"), "\n\n")
	require.Len(t, grids, 12)
	assert.Equal(t, grid(
		"- - - -", "- - - -", "- - - -", "- - - -", "0 0 0 0", "0 0 0 0",
	), grids[10])
	assert.Equal(t, grids[0], grids[11])
}

func TestRunSkipsUnknownInput(t *testing.T) {
	var logs bytes.Buffer
	logger := zerolog.New(&logs)

	out, err := run(t, input("4 2", "jump", "piece X", "piece", "q", "", "piece", "o", "exit"),
		shell.WithLogger(logger))
	require.NoError(t, err)

	assert.Equal(t, transcript(
		grid("- - - -", "- - - -"),
		grid("- 0 0 -", "- 0 0 -"),
	), out)
	assert.Equal(t, 3, strings.Count(logs.String(), `"message":"command skipped"`))
	assert.Contains(t, logs.String(), `"session":"`)
}

func TestRunPassesGridOptions(t *testing.T) {
	out, err := run(t, input("4 2", "exit"), shell.WithGridOptions(game.WithSymbols(".", "#")))
	require.NoError(t, err)
	assert.Equal(t, transcript(grid(". . . .", ". . . .")), out)
}

func TestRunStopsAtEndOfInput(t *testing.T) {
	out, err := run(t, input("4 4", "piece"))
	require.NoError(t, err)
	assert.Equal(t, transcript(empty4x4), out)
}

func TestRunRejectsBadHeader(t *testing.T) {
	_, err := run(t, strings.NewReader(""))
	assert.ErrorIs(t, err, shell.ErrBadHeader)

	_, err = run(t, input("ten twenty"))
	assert.ErrorIs(t, err, shell.ErrBadHeader)

	_, err = run(t, input("10"))
	assert.ErrorIs(t, err, shell.ErrBadHeader)

	_, err = run(t, input("3 10"))
	assert.ErrorIs(t, err, game.ErrInvalidDimensions)
}

func TestRunHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	err := shell.New(input("4 4", "piece", "O"), &out).Run(ctx)
	require.NoError(t, err)
	assert.Empty(t, out.String())
}

func TestRunStopsWhenCancelledMidRead(t *testing.T) {
	inR, inW := io.Pipe()
	outR, outW := io.Pipe()
	t.Cleanup(func() { inW.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- shell.New(inR, outW).Run(ctx) }()

	_, err := io.WriteString(inW, "4 4\n")
	require.NoError(t, err)

	// Once the empty grid is printed, Run is blocked waiting for a command.
	want := transcript(empty4x4)
	got := make([]byte, len(want))
	_, err = io.ReadFull(outR, got)
	require.NoError(t, err)
	assert.Equal(t, want, string(got))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after the context was cancelled")
	}
}

func TestSessionID(t *testing.T) {
	s := shell.New(strings.NewReader(""), &bytes.Buffer{})
	_, err := uuid.Parse(s.ID())
	assert.NoError(t, err)
	assert.NotEqual(t, s.ID(), shell.New(strings.NewReader(""), &bytes.Buffer{}).ID())
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		line string
		cmd  shell.Command
		arg  string
	}{
		{"rotate", shell.CmdRotate, ""},
		{"  LEFT ", shell.CmdLeft, ""},
		{"right", shell.CmdRight, ""},
		{"down", shell.CmdDown, ""},
		{"break", shell.CmdBreak, ""},
		{"exit", shell.CmdExit, ""},
		{"piece", shell.CmdPiece, ""},
		{"piece T", shell.CmdPiece, "t"},
	}
	for _, tt := range tests {
		cmd, arg, err := shell.ParseCommand(tt.line)
		require.NoError(t, err, tt.line)
		assert.Equal(t, tt.cmd, cmd, tt.line)
		assert.Equal(t, tt.arg, arg, tt.line)
	}

	for _, bad := range []string{"", "jump", "down 2", "piece T O"} {
		_, _, err := shell.ParseCommand(bad)
		assert.ErrorIs(t, err, shell.ErrUnknownCommand, bad)
	}
}

func TestCommandString(t *testing.T) {
	assert.Equal(t, "break", shell.CmdBreak.String())
	for c := shell.CmdPiece; c <= shell.CmdExit; c++ {
		cmd, _, err := shell.ParseCommand(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, cmd)
	}
	assert.Equal(t, "Command(-1)", shell.Command(-1).String())
	assert.Equal(t, "Command(42)", shell.Command(42).String())
}
