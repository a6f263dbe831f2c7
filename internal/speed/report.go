package speed

// Report is the result of querying the control cell: the stored mode plus
// an explanation of what the mode means for attached devices.
type Report struct {
	Mode        Mode
	Explanation string
}

const highExplanation = `The USB controller is running at high speed (USB 2.0, 480 Mbit/s).
Mass storage and other modern devices transfer at their full rate.

Some older USB 1.1 devices are not detected reliably while the controller
operates at high speed. If such a device is not recognized, switch the
controller to full-speed mode and reconnect the device.`

const fullExplanation = `The USB controller is running at full speed (USB 1.1, 12 Mbit/s).
This mode offers the best compatibility with older devices, but limits the
transfer rate of every attached device, including fast mass storage.

If all attached devices support USB 2.0, switch the controller back to
high-speed mode for full throughput.`

func explanationFor(mode Mode) string {
	if mode == Full {
		return fullExplanation
	}
	return highExplanation
}

// Query reads the control cell and builds a report for the stored mode.
// A missing cell yields an empty report and ErrNotFound; unexpected cell
// content yields ErrInvalidSpeed.
func (c *Controller) Query() (Report, error) {
	mode, err := c.Read()
	if err != nil {
		return Report{}, err
	}
	return Report{Mode: mode, Explanation: explanationFor(mode)}, nil
}
