package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"usbspeed/internal/speed"
	"usbspeed/internal/usbdev"
)

// DefaultPath is where the optional tool configuration lives.
const DefaultPath = "/etc/usbspeed.yaml"

// Config relocates the kernel paths the tool touches. It carries no program
// state: the control cell itself is the only persistent setting.
type Config struct {
	// ControlPath overrides the speed control cell location.
	ControlPath string `yaml:"control_path"`
	// SysfsUSBPath overrides the device-listing root.
	SysfsUSBPath string `yaml:"sysfs_usb_path"`
}

// Load reads a tool configuration file. A missing file is not an error:
// defaults apply. A present but unparsable file is.
func Load(path string) (Config, error) {
	cfg := Config{}

	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return withDefaults(cfg), nil
		}
		return Config{}, err
	}

	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}

	return withDefaults(cfg), nil
}

func withDefaults(cfg Config) Config {
	if cfg.ControlPath == "" {
		cfg.ControlPath = speed.DefaultControlPath
	}
	if cfg.SysfsUSBPath == "" {
		cfg.SysfsUSBPath = usbdev.DefaultSysfsPath
	}
	return cfg
}
