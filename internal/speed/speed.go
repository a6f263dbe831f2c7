package speed

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// Mode is the operating speed of the USB controller.
//
// The kernel control cell stores the mode as a single digit: "0" for
// high-speed (USB 2.0, 480 Mbit/s), "1" for full-speed (USB 1.1, 12 Mbit/s).
type Mode int

const (
	High Mode = 0
	Full Mode = 1
)

// DefaultControlPath is where the kernel exposes the speed control cell.
// The file exists only while the USB controller driver is loaded.
const DefaultControlPath = "/proc/usb1_1"

var (
	ErrNotFound     = errors.New("speed control file not found")
	ErrInvalidSpeed = errors.New("invalid speed")
)

func (m Mode) String() string {
	switch m {
	case High:
		return "high"
	case Full:
		return "full"
	}
	return fmt.Sprintf("mode(%d)", int(m))
}

// Label returns the human-readable name used in reports.
func (m Mode) Label() string {
	switch m {
	case High:
		return "high-speed (USB 2.0)"
	case Full:
		return "full-speed (USB 1.1)"
	}
	return m.String()
}

// cell returns the digit stored in the control cell for this mode.
func (m Mode) cell() string {
	return fmt.Sprintf("%d", int(m))
}

// ParseMode maps a control-cell digit to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "0":
		return High, nil
	case "1":
		return Full, nil
	}
	return 0, fmt.Errorf("%w: unexpected control value %q", ErrInvalidSpeed, s)
}

// ParseName maps a user-supplied speed name ("high" or "full") to a Mode.
func ParseName(name string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "high":
		return High, nil
	case "full":
		return Full, nil
	}
	return 0, fmt.Errorf("%w: invalid speed parameter specified: %q", ErrInvalidSpeed, name)
}

// Controller reads and writes the kernel speed control cell.
//
// Every operation performs one existence check followed by at most one read
// or one write. The cell is never created: its absence means the controller
// driver is not loaded, and that condition is reported, not repaired.
type Controller struct {
	// Path of the control cell. Empty means DefaultControlPath.
	Path string
}

func NewController(path string) *Controller {
	return &Controller{Path: path}
}

func (c *Controller) path() string {
	if c.Path == "" {
		return DefaultControlPath
	}
	return c.Path
}

// Read returns the mode currently stored in the control cell.
func (c *Controller) Read() (Mode, error) {
	p := c.path()
	if err := statCell(p); err != nil {
		return 0, fmt.Errorf("%w: %s", ErrNotFound, p)
	}
	b, err := os.ReadFile(p)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", p, err)
	}
	return ParseMode(strings.TrimSpace(string(b)))
}

// Write stores mode in the control cell, overwriting its content.
func (c *Controller) Write(mode Mode) error {
	p := c.path()
	if err := statCell(p); err != nil {
		return fmt.Errorf("%w: %s", ErrNotFound, p)
	}
	// O_WRONLY without O_TRUNC/O_CREATE: procfs cells can reject truncation
	// flags at open() time even when mode bits allow writes.
	f, err := os.OpenFile(p, os.O_WRONLY, 0)
	if err != nil {
		return fmt.Errorf("open %s: %w", p, err)
	}
	_, werr := f.WriteString(mode.cell())
	cerr := f.Close()
	if werr != nil {
		return fmt.Errorf("write %s: %w", p, werr)
	}
	if cerr != nil {
		return fmt.Errorf("close %s: %w", p, cerr)
	}
	return nil
}

// Set validates mode and writes it to the control cell.
func (c *Controller) Set(mode Mode) error {
	if mode != High && mode != Full {
		return fmt.Errorf("%w: invalid USB port speed setting: %d", ErrInvalidSpeed, int(mode))
	}
	return c.Write(mode)
}

// SetNamed maps a speed name ("high" or "full") to a mode and sets it.
func (c *Controller) SetNamed(name string) error {
	mode, err := ParseName(name)
	if err != nil {
		return err
	}
	return c.Set(mode)
}
