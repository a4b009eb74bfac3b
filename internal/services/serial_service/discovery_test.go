package serial_service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/iwtcode/rlinkBridge/internal/config"
	"github.com/iwtcode/rlinkBridge/internal/middleware/logging"
	apperrors "github.com/iwtcode/rlinkBridge/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.bug.st/serial/enumerator"
)

func TestNormalizeID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0403", "0403"},
		{"403", "0403"},
		{"  6001\n", "6001"},
		{"ea60", "EA60"},
		{"0x", "000X"},
		{"", "0000"},
		{"0000", "0000"},
		{"10c4", "10C4"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, NormalizeID(tt.in), "input %q", tt.in)
	}
}

func TestParseUdevProperties(t *testing.T) {
	out := "DEVNAME=/dev/ttyUSB0\nID_VENDOR_ID=10c4\nID_MODEL_ID=ea60\nID_SERIAL=Silicon_Labs\n"
	vid, pid := parseUdevProperties(out)
	require.Equal(t, "10c4", vid)
	require.Equal(t, "ea60", pid)

	vid, pid = parseUdevProperties("DEVNAME=/dev/ttyS0\n")
	require.Empty(t, vid)
	require.Empty(t, pid)
}

// buildSysfs создает дерево вида /sys/class/tty/<name>/device -> .../usb1/1-1/1-1:1.0/<name>
func buildSysfs(t *testing.T, name, vid, pid string) string {
	t.Helper()
	root := t.TempDir()

	usbDev := filepath.Join(root, "devices", "usb1", "1-1")
	iface := filepath.Join(usbDev, "1-1:1.0", name)
	require.NoError(t, os.MkdirAll(iface, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(usbDev, "idVendor"), []byte(vid+"\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(usbDev, "idProduct"), []byte(pid+"\n"), 0o644))

	ttyDir := filepath.Join(root, "class", "tty", name)
	require.NoError(t, os.MkdirAll(ttyDir, 0o755))
	require.NoError(t, os.Symlink(iface, filepath.Join(ttyDir, "device")))

	return filepath.Join(root, "class", "tty")
}

func newLinuxDiscovery(sysfsRoot string, ports []string, udev map[string]string) (*Discovery, *int) {
	udevCalls := 0
	d := NewDiscovery(logging.NewNopLogger())
	d.goos = "linux"
	d.sysfsRoot = sysfsRoot
	d.listPorts = func() ([]string, error) { return ports, nil }
	d.udevInfo = func(ctx context.Context, dev string) (string, error) {
		udevCalls++
		out, ok := udev[dev]
		if !ok {
			return "", errors.New("exit status 4")
		}
		return out, nil
	}
	return d, &udevCalls
}

func TestDiscovery_SysfsMatch(t *testing.T) {
	root := buildSysfs(t, "ttyUSB0", "10c4", "ea60")
	d, udevCalls := newLinuxDiscovery(root, []string{"/dev/ttyUSB0"}, nil)

	path, ok := d.FindPortByVidPid("10C4", "EA60")
	require.True(t, ok)
	require.Equal(t, "/dev/ttyUSB0", path)
	require.Zero(t, *udevCalls)
}

func TestDiscovery_SysfsMismatchSkipsUdev(t *testing.T) {
	root := buildSysfs(t, "ttyUSB0", "0403", "6001")
	d, udevCalls := newLinuxDiscovery(root, []string{"/dev/ttyUSB0"}, map[string]string{
		"/dev/ttyUSB0": "ID_VENDOR_ID=10c4\nID_MODEL_ID=ea60\n",
	})

	_, ok := d.FindPortByVidPid("10c4", "ea60")
	require.False(t, ok)
	require.Zero(t, *udevCalls)
}

func TestDiscovery_UdevFallback(t *testing.T) {
	root := buildSysfs(t, "ttyUSB0", "0403", "6001")
	d, udevCalls := newLinuxDiscovery(root, []string{"/dev/ttyUSB0", "/dev/ttyACM0"}, map[string]string{
		"/dev/ttyACM0": "ID_VENDOR_ID=1209\nID_MODEL_ID=5741\n",
	})

	path, ok := d.FindPortByVidPid("1209", "5741")
	require.True(t, ok)
	require.Equal(t, "/dev/ttyACM0", path)
	require.Equal(t, 1, *udevCalls)
}

func TestDiscovery_NoMatch(t *testing.T) {
	d, _ := newLinuxDiscovery(t.TempDir(), []string{"/dev/ttyS0"}, nil)

	_, ok := d.FindPortByVidPid("10c4", "ea60")
	require.False(t, ok)
}

func TestDiscovery_Enumerator(t *testing.T) {
	d := NewDiscovery(logging.NewNopLogger())
	d.goos = "darwin"
	d.usbPorts = func() ([]*enumerator.PortDetails, error) {
		return []*enumerator.PortDetails{
			{Name: "/dev/cu.Bluetooth", IsUSB: false},
			{Name: "/dev/cu.usbserial-1", IsUSB: true, VID: "0403", PID: "6001"},
			{Name: "/dev/cu.SLAB_USBtoUART", IsUSB: true, VID: "10C4", PID: "EA60"},
		}, nil
	}

	path, ok := d.FindPortByVidPid("10c4", "ea60")
	require.True(t, ok)
	require.Equal(t, "/dev/cu.SLAB_USBtoUART", path)
}

func TestResolvePort(t *testing.T) {
	root := buildSysfs(t, "ttyUSB0", "10c4", "ea60")
	d, _ := newLinuxDiscovery(root, []string{"/dev/ttyUSB0"}, nil)

	path, err := ResolvePort(config.SerialConfig{Port: "/dev/ttyAMA0", VendorID: "10c4", ProductID: "ea60"}, d)
	require.NoError(t, err)
	require.Equal(t, "/dev/ttyAMA0", path)

	path, err = ResolvePort(config.SerialConfig{VendorID: "10c4", ProductID: "ea60"}, d)
	require.NoError(t, err)
	require.Equal(t, "/dev/ttyUSB0", path)

	_, err = ResolvePort(config.SerialConfig{VendorID: "dead", ProductID: "beef"}, d)
	require.True(t, errors.Is(err, apperrors.ErrPortNotFound))
}
