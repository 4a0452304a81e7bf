package vm

import (
	"errors"

	"github.com/aryanA101a/lulu/translate"
)

var f = translate.From

var (
	// Image load errors
	ErrImageShort    = errors.New(f("image is too short"))
	ErrImageOverflow = errors.New(f("image does not fit above its origin"))

	// Execution errors
	ErrHalted = errors.New(f("machine is halted"))
)

// ErrLoad reports the image file that failed to load.
type ErrLoad struct {
	Path string
	Err  error
}

func (err *ErrLoad) Error() string {
	return f("load %v: %v", err.Path, err.Err)
}

func (err *ErrLoad) Unwrap() error {
	return err.Err
}

// ErrTrap reports a console failure inside a trap routine.
type ErrTrap struct {
	Vector uint16
	Err    error
}

func (err *ErrTrap) Error() string {
	return f("trap 0x%02x: %v", err.Vector, err.Err)
}

func (err *ErrTrap) Unwrap() error {
	return err.Err
}
