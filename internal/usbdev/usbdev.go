package usbdev

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// DefaultSysfsPath is where the kernel lists USB devices.
const DefaultSysfsPath = "/sys/bus/usb/devices"

// Device describes one attached USB device as enumerated via sysfs.
type Device struct {
	Name      string // sysfs entry name, e.g. "1-1.2"
	Bus       int
	Dev       int
	VendorID  string // 4 hex digits, may be empty
	ProductID string // 4 hex digits, may be empty
	Speed     string // raw sysfs speed value in Mbit/s, may be empty
}

// SpeedLabel maps the sysfs speed attribute to the usual USB speed name.
func SpeedLabel(speed string) string {
	switch speed {
	case "1.5":
		return "low-speed (1.5 Mbit/s)"
	case "12":
		return "full-speed (12 Mbit/s)"
	case "480":
		return "high-speed (480 Mbit/s)"
	case "5000":
		return "super-speed (5 Gbit/s)"
	case "":
		return "unknown"
	}
	return speed + " Mbit/s"
}

// Scan enumerates attached USB devices under a sysfs root.
//
// Root hub entries (usbN) and interface entries (N-M:C.I) are skipped; so is
// any entry whose busnum or devnum cannot be read. Missing optional
// attributes leave the corresponding field empty.
func Scan(root string) ([]Device, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}

	var devs []Device
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, "usb") {
			continue
		}
		if strings.Contains(name, ":") {
			continue
		}

		p := filepath.Join(root, name)
		bus, err := readAttrInt(filepath.Join(p, "busnum"))
		if err != nil {
			continue
		}
		dev, err := readAttrInt(filepath.Join(p, "devnum"))
		if err != nil {
			continue
		}

		d := Device{Name: name, Bus: bus, Dev: dev}
		d.VendorID, _ = readAttr(filepath.Join(p, "idVendor"))
		d.ProductID, _ = readAttr(filepath.Join(p, "idProduct"))
		d.Speed, _ = readAttr(filepath.Join(p, "speed"))
		devs = append(devs, d)
	}

	sort.Slice(devs, func(i, j int) bool {
		if devs[i].Bus != devs[j].Bus {
			return devs[i].Bus < devs[j].Bus
		}
		return devs[i].Dev < devs[j].Dev
	})
	return devs, nil
}

func readAttr(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(b)), nil
}

func readAttrInt(path string) (int, error) {
	s, err := readAttr(path)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(s)
}
