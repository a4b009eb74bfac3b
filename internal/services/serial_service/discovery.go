package serial_service

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/iwtcode/rlinkBridge/internal/config"
	"github.com/iwtcode/rlinkBridge/internal/middleware/logging"
	apperrors "github.com/iwtcode/rlinkBridge/pkg/errors"
	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"
)

const (
	sysfsTTYRoot   = "/sys/class/tty"
	sysfsMaxDepth  = 8
	udevadmTimeout = 1500 * time.Millisecond
)

// Discovery ищет последовательный порт по паре VID/PID
type Discovery struct {
	goos      string
	sysfsRoot string
	listPorts func() ([]string, error)
	udevInfo  func(ctx context.Context, dev string) (string, error)
	usbPorts  func() ([]*enumerator.PortDetails, error)
	logger    *logging.Logger
}

func NewDiscovery(logger *logging.Logger) *Discovery {
	return &Discovery{
		goos:      runtime.GOOS,
		sysfsRoot: sysfsTTYRoot,
		listPorts: serial.GetPortsList,
		udevInfo:  udevadmInfo,
		usbPorts:  enumerator.GetDetailedPortsList,
		logger:    logger.WithPrefix("DISCOVERY"),
	}
}

// NormalizeID приводит идентификатор к виду "0403": без ведущих нулей,
// в верхнем регистре, дополненный нулями до 4 символов
func NormalizeID(id string) string {
	s := strings.ToUpper(strings.TrimLeft(strings.TrimSpace(id), "0"))
	if len(s) < 4 {
		s = strings.Repeat("0", 4-len(s)) + s
	}
	return s
}

func matchID(got, want string) bool {
	if got == "" {
		return false
	}
	return NormalizeID(got) == NormalizeID(want)
}

// FindPortByVidPid возвращает первый порт с совпадающими VID и PID.
// На Linux сначала sysfs, при отсутствии данных - udevadm.
// На остальных платформах идентификаторы берутся из USB-перечислителя.
func (d *Discovery) FindPortByVidPid(vendorID, productID string) (string, bool) {
	if d.goos != "linux" {
		return d.findViaEnumerator(vendorID, productID)
	}

	ports, err := d.listPorts()
	if err != nil {
		d.logger.Warn("Failed to list serial ports", "error", err)
		return "", false
	}

	for _, dev := range ports {
		vid, pid := d.vidPidFromSysfs(dev)
		if vid != "" && pid != "" {
			d.logger.Debug("sysfs ids", "port", dev, "vid", vid, "pid", pid)
			if matchID(vid, vendorID) && matchID(pid, productID) {
				return dev, true
			}
			continue
		}

		vid, pid = d.vidPidFromUdev(dev)
		d.logger.Debug("udev ids", "port", dev, "vid", vid, "pid", pid)
		if matchID(vid, vendorID) && matchID(pid, productID) {
			return dev, true
		}
	}
	return "", false
}

// vidPidFromSysfs идет от /sys/class/tty/<name>/device вверх в поисках idVendor/idProduct
func (d *Discovery) vidPidFromSysfs(dev string) (string, string) {
	link := filepath.Join(d.sysfsRoot, filepath.Base(dev), "device")
	probe, err := filepath.EvalSymlinks(link)
	if err != nil {
		probe = link
	}

	for i := 0; i < sysfsMaxDepth; i++ {
		vid, errV := os.ReadFile(filepath.Join(probe, "idVendor"))
		pid, errP := os.ReadFile(filepath.Join(probe, "idProduct"))
		if errV == nil && errP == nil {
			return strings.TrimSpace(string(vid)), strings.TrimSpace(string(pid))
		}

		parent := filepath.Dir(probe)
		if parent == probe {
			break
		}
		probe = parent
	}
	return "", ""
}

func (d *Discovery) vidPidFromUdev(dev string) (string, string) {
	ctx, cancel := context.WithTimeout(context.Background(), udevadmTimeout)
	defer cancel()

	out, err := d.udevInfo(ctx, dev)
	if err != nil {
		d.logger.Debug("udevadm query failed", "port", dev, "error", err)
		return "", ""
	}
	return parseUdevProperties(out)
}

func udevadmInfo(ctx context.Context, dev string) (string, error) {
	out, err := exec.CommandContext(ctx, "udevadm", "info", "-q", "property", "-n", dev).Output()
	return string(out), err
}

func parseUdevProperties(text string) (vid, pid string) {
	sc := bufio.NewScanner(strings.NewReader(text))
	for sc.Scan() {
		line := sc.Text()
		if v, ok := strings.CutPrefix(line, "ID_VENDOR_ID="); ok {
			vid = strings.TrimSpace(v)
		}
		if v, ok := strings.CutPrefix(line, "ID_MODEL_ID="); ok {
			pid = strings.TrimSpace(v)
		}
	}
	return vid, pid
}

func (d *Discovery) findViaEnumerator(vendorID, productID string) (string, bool) {
	ports, err := d.usbPorts()
	if err != nil {
		d.logger.Warn("Failed to enumerate USB serial ports", "error", err)
		return "", false
	}
	for _, p := range ports {
		if p == nil || !p.IsUSB {
			continue
		}
		if matchID(p.VID, vendorID) && matchID(p.PID, productID) {
			return p.Name, true
		}
	}
	return "", false
}

// ResolvePort выбирает путь к устройству: явно заданный порт, иначе поиск по VID/PID
func ResolvePort(cfg config.SerialConfig, d *Discovery) (string, error) {
	if cfg.Port != "" {
		return cfg.Port, nil
	}
	if path, ok := d.FindPortByVidPid(cfg.VendorID, cfg.ProductID); ok {
		d.logger.Info("Serial port resolved", "vid", cfg.VendorID, "pid", cfg.ProductID, "port", path)
		return path, nil
	}
	return "", fmt.Errorf("%w: vid=%s pid=%s", apperrors.ErrPortNotFound, cfg.VendorID, cfg.ProductID)
}
