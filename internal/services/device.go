package services

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	defaultDeviceTimeout = 5 * time.Second
	defaultRawPort       = 9100
)

// Device is the long-lived handle to a receipt printer. Implementations
// serialise their own writes.
type Device interface {
	Name() string
	Send(ctx context.Context, job []byte) error
}

// --- Network (raw TCP, port 9100) ---

type NetworkDevice struct {
	addr    string
	timeout time.Duration
	// settle gives the printer time to process before the socket closes.
	settle time.Duration
	mu     sync.Mutex
}

// OpenNetworkDevice checks that addr accepts connections and returns a handle.
func OpenNetworkDevice(ctx context.Context, addr string, timeout, settle time.Duration) (*NetworkDevice, error) {
	if timeout <= 0 {
		timeout = defaultDeviceTimeout
	}
	d := &NetworkDevice{addr: addr, timeout: timeout, settle: settle}
	conn, err := d.dial(ctx)
	if err != nil {
		return nil, err
	}
	conn.Close()
	return d, nil
}

func (d *NetworkDevice) Name() string { return "tcp://" + d.addr }

func (d *NetworkDevice) dial(ctx context.Context) (net.Conn, error) {
	dialer := net.Dialer{Timeout: d.timeout}
	conn, err := dialer.DialContext(ctx, "tcp", d.addr)
	if err != nil {
		return nil, fmt.Errorf("connection failed: %w", err)
	}
	return conn, nil
}

func (d *NetworkDevice) Send(ctx context.Context, job []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	conn, err := d.dial(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := conn.SetWriteDeadline(time.Now().Add(d.timeout)); err != nil {
		return fmt.Errorf("set deadline: %w", err)
	}
	if _, err := conn.Write(job); err != nil {
		return fmt.Errorf("write failed: %w", err)
	}

	if d.settle > 0 {
		select {
		case <-time.After(d.settle):
		case <-ctx.Done():
		}
	}
	return nil
}

// --- Local character device (e.g. /dev/usb/lp0) ---

type FileDevice struct {
	path string
	mu   sync.Mutex
}

func OpenFileDevice(path string) (*FileDevice, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("printer device %s: %w", path, err)
	}
	return &FileDevice{path: path}, nil
}

func (d *FileDevice) Name() string { return "file://" + d.path }

func (d *FileDevice) Send(_ context.Context, job []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	f, err := os.OpenFile(d.path, os.O_WRONLY|os.O_APPEND, 0)
	if err != nil {
		return fmt.Errorf("open %s: %w", d.path, err)
	}
	if _, err := f.Write(job); err != nil {
		f.Close()
		return fmt.Errorf("write failed: %w", err)
	}
	return f.Close()
}

// --- Opening from configuration ---

type DeviceConfig struct {
	// Interface is "", "auto", "tcp://host[:port]" or "file:///dev/...".
	Interface     string
	DiscoveryPort int
	Timeout       time.Duration
	Settle        time.Duration
}

// OpenDevice opens the thermal device once at start-up. A nil Device with a
// nil error means thermal printing is disabled.
func OpenDevice(ctx context.Context, cfg DeviceConfig, logger *zap.Logger) (Device, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	port := cfg.DiscoveryPort
	if port == 0 {
		port = defaultRawPort
	}

	switch cfg.Interface {
	case "":
		return nil, nil
	case "auto":
		found := DiscoverThermalPrinters(ctx, port, logger)
		if len(found) == 0 {
			return nil, fmt.Errorf("no printer answered on port %d", port)
		}
		logger.Info("Thermal printer discovered", zap.Strings("candidates", found))
		return openNetwork(ctx, found[0], cfg)
	}

	u, err := url.Parse(cfg.Interface)
	if err != nil {
		return nil, fmt.Errorf("invalid thermal interface %q: %w", cfg.Interface, err)
	}
	switch u.Scheme {
	case "tcp":
		host := u.Host
		if u.Port() == "" {
			host = net.JoinHostPort(u.Hostname(), strconv.Itoa(port))
		}
		return openNetwork(ctx, host, cfg)
	case "file":
		d, err := OpenFileDevice(u.Path)
		if err != nil {
			return nil, err
		}
		return d, nil
	default:
		return nil, fmt.Errorf("unsupported thermal interface scheme %q", u.Scheme)
	}
}

func openNetwork(ctx context.Context, addr string, cfg DeviceConfig) (Device, error) {
	d, err := OpenNetworkDevice(ctx, addr, cfg.Timeout, cfg.Settle)
	if err != nil {
		return nil, err
	}
	return d, nil
}
