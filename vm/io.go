package vm

import (
	"context"
	"errors"
	goIO "io"
	"log"
	"os"
	"time"

	"github.com/pkg/term/termios"
	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

// Console is the character device behind the trap routines and the
// keyboard registers.
type Console interface {
	// KeyAvailable reports, without blocking, whether ReadKey would
	// return immediately.
	KeyAvailable() bool
	// ReadKey blocks until a key arrives or ctx is done.
	ReadKey(ctx context.Context) (byte, error)
	WriteByte(c byte) error
}

// how long ReadKey waits before looking at its context again
const keyWaitSlice = 50 * time.Millisecond

// Terminal is a Console over a pair of files, usually stdin and stdout.
type Terminal struct {
	input                  *os.File
	output                 goIO.Writer
	originalTerminalConfig unix.Termios
	raw                    bool
}

func NewTerminal(input *os.File, output goIO.Writer) *Terminal {
	return &Terminal{
		input:  input,
		output: output,
	}
}

// EnableRawMode turns off line buffering and echo. It does nothing when
// the input is not a terminal.
func (t *Terminal) EnableRawMode() error {
	if t.raw || !term.IsTerminal(int(t.input.Fd())) {
		return nil
	}
	log.Printf("enabling raw mode...")
	if err := termios.Tcgetattr(t.input.Fd(), &t.originalTerminalConfig); err != nil {
		return err
	}
	newTermios := t.originalTerminalConfig
	newTermios.Lflag &^= unix.ICANON | unix.ECHO
	if err := termios.Tcsetattr(t.input.Fd(), termios.TCSANOW, &newTermios); err != nil {
		return err
	}
	t.raw = true
	return nil
}

// DisableRawMode restores the settings saved by EnableRawMode.
func (t *Terminal) DisableRawMode() error {
	if !t.raw {
		return nil
	}
	log.Printf("disabling raw mode...")
	t.raw = false
	return termios.Tcsetattr(t.input.Fd(), termios.TCSANOW, &t.originalTerminalConfig)
}

func (t *Terminal) KeyAvailable() bool {
	ready, err := t.wait(0)
	if err != nil {
		log.Printf("keyboard poll: %v", err)
	}
	return ready
}

func (t *Terminal) ReadKey(ctx context.Context) (byte, error) {
	for {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		ready, err := t.wait(keyWaitSlice)
		if err != nil {
			return 0, err
		}
		if !ready {
			continue
		}
		var buf [1]byte
		n, err := t.input.Read(buf[:])
		if err != nil {
			return 0, err
		}
		if n == 1 {
			return buf[0], nil
		}
	}
}

func (t *Terminal) WriteByte(c byte) error {
	_, err := t.output.Write([]byte{c})
	return err
}

// wait reports whether input is readable within timeout. An interrupted
// select is not an error.
func (t *Terminal) wait(timeout time.Duration) (bool, error) {
	fd := int(t.input.Fd())
	if fd < 0 {
		return false, os.ErrClosed
	}

	var readfds unix.FdSet
	readfds.Zero()
	readfds.Set(fd)
	tv := unix.NsecToTimeval(timeout.Nanoseconds())

	n, err := unix.Select(fd+1, &readfds, nil, nil, &tv)
	if errors.Is(err, unix.EINTR) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
