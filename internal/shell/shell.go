// internal/shell/shell.go
//
// Line-oriented driver for a single game.
// Responsibilities:
//   - Read the "<width> <height>" header and build the grid.
//   - Map each command line onto a grid operation.
//   - Print the grid after every command, followed by a blank line.
//   - Print "Game Over!" and stop once the grid is full (checked after every
//     command except "piece").
//
// Notes:
//   - "piece" reads the kind from the following line; "piece <kind>" also works.
//   - Unknown commands and kinds are logged and skipped; nothing is printed
//     for them.
//   - Each run gets a session ID that tags its log lines.
//   - Input is read on its own goroutine so a cancelled context ends Run even
//     while it waits for a line.

package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/robalobadob/blockfall/internal/game"
)

const gameOverMessage = "Game Over!"

// Shell runs one game over a pair of streams.
type Shell struct {
	id       string
	in       io.Reader
	out      io.Writer
	log      zerolog.Logger
	gridOpts []game.Option

	lines   chan string
	readErr error // set before lines is closed
	stop    chan struct{}
}

// Option configures a Shell.
type Option func(*Shell)

// WithLogger sets the base logger; the session ID is added to it.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Shell) { s.log = l }
}

// WithGridOptions passes options through to game.NewGrid.
func WithGridOptions(opts ...game.Option) Option {
	return func(s *Shell) { s.gridOpts = append(s.gridOpts, opts...) }
}

// New returns a Shell reading commands from in and writing grids to out.
func New(in io.Reader, out io.Writer, opts ...Option) *Shell {
	s := &Shell{
		id:  uuid.NewString(),
		in:  in,
		out: out,
		log: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With().Str("session", s.id).Logger()
	return s
}

// ID is the session identifier used in log lines.
func (s *Shell) ID() string { return s.id }

// Run plays until "exit", game over, end of input or ctx is done. Only a bad
// header, an invalid grid size or an I/O failure is returned as an error.
// Run is meant to be called once per Shell.
func (s *Shell) Run(ctx context.Context) error {
	s.lines = make(chan string)
	s.stop = make(chan struct{})
	defer close(s.stop)
	go s.read()

	header, err := s.next(ctx)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: no input", ErrBadHeader)
		}
		return s.finish(err)
	}
	w, h, err := ParseDimensions(header)
	if err != nil {
		return err
	}
	g, err := game.NewGrid(w, h, s.gridOpts...)
	if err != nil {
		return fmt.Errorf("new grid: %w", err)
	}
	s.log.Info().Int("width", w).Int("height", h).Msg("game started")

	if err := s.print(g); err != nil {
		return err
	}

	for {
		line, err := s.next(ctx)
		if err != nil {
			return s.finish(err)
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		cmd, arg, err := ParseCommand(line)
		if err != nil {
			s.log.Warn().Err(err).Msg("command skipped")
			continue
		}
		if cmd == CmdExit {
			s.log.Info().Msg("exit requested")
			return nil
		}

		if cmd == CmdPiece && arg == "" {
			if arg, err = s.next(ctx); err != nil {
				if errors.Is(err, io.EOF) {
					s.log.Warn().Msg("input ended before piece kind")
				}
				return s.finish(err)
			}
		}
		if err := s.apply(g, cmd, arg); err != nil {
			if errors.Is(err, game.ErrUnknownKind) {
				s.log.Warn().Err(err).Msg("command skipped")
				continue
			}
			return err
		}

		if err := s.print(g); err != nil {
			return err
		}
		if cmd != CmdPiece && g.IsGameOver() {
			s.log.Info().Msg("game over")
			_, err := fmt.Fprintln(s.out, gameOverMessage)
			return err
		}
	}
}

// apply runs cmd against g. arg is the piece kind for CmdPiece.
func (s *Shell) apply(g *game.Grid, cmd Command, arg string) error {
	switch cmd {
	case CmdPiece:
		kind, err := game.ParseKind(arg)
		if err != nil {
			return err
		}
		return g.Spawn(kind)
	case CmdRotate:
		g.Rotate()
	case CmdLeft:
		g.ShiftLeft()
	case CmdRight:
		g.ShiftRight()
	case CmdDown:
		g.DropOneRow()
	case CmdBreak:
		if n := g.ClearFullRows(); n > 0 {
			s.log.Debug().Int("rows", n).Msg("rows cleared")
		}
	}
	return nil
}

// read feeds input lines to s.lines until input ends or Run returns.
func (s *Shell) read() {
	defer close(s.lines)
	sc := bufio.NewScanner(s.in)
	for sc.Scan() {
		select {
		case s.lines <- sc.Text():
		case <-s.stop:
			return
		}
	}
	s.readErr = sc.Err()
}

// next returns the next input line, io.EOF at end of input, or ctx's error
// once it is done.
func (s *Shell) next(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-s.lines:
		if !ok {
			if s.readErr != nil {
				return "", s.readErr
			}
			return "", io.EOF
		}
		return line, nil
	}
}

// finish maps the error that stopped reading onto Run's result.
func (s *Shell) finish(err error) error {
	switch {
	case errors.Is(err, io.EOF):
		s.log.Info().Msg("end of input")
		return nil
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		s.log.Info().Err(err).Msg("game interrupted")
		return nil
	}
	return fmt.Errorf("read input: %w", err)
}

func (s *Shell) print(g *game.Grid) error {
	_, err := fmt.Fprintf(s.out, "%s\n\n", g)
	return err
}
