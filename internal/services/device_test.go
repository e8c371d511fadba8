package services

import (
	"context"
	"io"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rawPrinter is a loopback listener standing in for a port 9100 printer.
func rawPrinter(t *testing.T) (string, <-chan []byte) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })

	received := make(chan []byte, 8)
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			data, _ := io.ReadAll(conn)
			conn.Close()
			if len(data) > 0 {
				received <- data
			}
		}
	}()
	return ln.Addr().String(), received
}

func TestNetworkDevice_Send(t *testing.T) {
	addr, received := rawPrinter(t)

	dev, err := OpenNetworkDevice(context.Background(), addr, time.Second, 0)
	require.NoError(t, err)
	assert.Equal(t, "tcp://"+addr, dev.Name())

	require.NoError(t, dev.Send(context.Background(), []byte("hello")))
	select {
	case data := <-received:
		assert.Equal(t, []byte("hello"), data)
	case <-time.After(2 * time.Second):
		t.Fatal("printer did not receive job")
	}
}

func TestOpenNetworkDevice_Unreachable(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	_, err = OpenNetworkDevice(context.Background(), addr, 200*time.Millisecond, 0)
	assert.Error(t, err)
}

func TestFileDevice_Send(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lp0")
	require.NoError(t, os.WriteFile(path, nil, 0644))

	dev, err := OpenFileDevice(path)
	require.NoError(t, err)
	require.NoError(t, dev.Send(context.Background(), []byte("abc")))
	require.NoError(t, dev.Send(context.Background(), []byte("def")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "abcdef", string(data))
}

func TestOpenDevice(t *testing.T) {
	ctx := context.Background()

	t.Run("disabled", func(t *testing.T) {
		dev, err := OpenDevice(ctx, DeviceConfig{}, nil)
		assert.NoError(t, err)
		assert.Nil(t, dev)
	})

	t.Run("tcp", func(t *testing.T) {
		addr, _ := rawPrinter(t)
		dev, err := OpenDevice(ctx, DeviceConfig{Interface: "tcp://" + addr, Timeout: time.Second}, nil)
		require.NoError(t, err)
		assert.Equal(t, "tcp://"+addr, dev.Name())
	})

	t.Run("file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "lp0")
		require.NoError(t, os.WriteFile(path, nil, 0644))
		dev, err := OpenDevice(ctx, DeviceConfig{Interface: "file://" + path}, nil)
		require.NoError(t, err)
		assert.Equal(t, "file://"+path, dev.Name())
	})

	t.Run("missing file", func(t *testing.T) {
		dev, err := OpenDevice(ctx, DeviceConfig{Interface: "file:///nonexistent/lp9"}, nil)
		assert.Error(t, err)
		assert.Nil(t, dev)
	})

	t.Run("unsupported scheme", func(t *testing.T) {
		_, err := OpenDevice(ctx, DeviceConfig{Interface: "usb://printer"}, nil)
		assert.Error(t, err)
	})
}
