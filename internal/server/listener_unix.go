//go:build linux || darwin

// Package server provides network listener functionality
package server

import (
	"errors"
	"net"
	"os"
	"strconv"
)

// sdListenFDsStart is the first fd systemd passes (SD_LISTEN_FDS_START).
const sdListenFDsStart = 3

// ErrNoActivatedSocket is returned when SOCKET_ACTIVATION=1 but no usable fd was passed.
var ErrNoActivatedSocket = errors.New("socket activation requested but no valid LISTEN_FDS")

// GetListener supports systemd socket activation if SOCKET_ACTIVATION=1 and
// LISTEN_FDS=1 for the current PID. Otherwise it listens on addr.
func GetListener(addr string) (net.Listener, error) {
	if os.Getenv("SOCKET_ACTIVATION") != "1" {
		return net.Listen("tcp", addr)
	}
	if os.Getenv("LISTEN_FDS") != "1" {
		return nil, ErrNoActivatedSocket
	}
	if pid, err := strconv.Atoi(os.Getenv("LISTEN_PID")); err != nil || pid != os.Getpid() {
		return nil, ErrNoActivatedSocket
	}
	f := os.NewFile(uintptr(sdListenFDsStart), "listener")
	if f == nil {
		return nil, ErrNoActivatedSocket
	}
	defer f.Close()
	ln, err := net.FileListener(f)
	if err != nil {
		return nil, errors.Join(ErrNoActivatedSocket, err)
	}
	return ln, nil
}
