package terminal

import (
	"encoding/binary"
	"sync"

	"golang.org/x/crypto/ssh"
)

// UserConnection adapts an ssh session channel to tcell.Tty
type UserConnection struct {
	ssh.Channel
	Connection *ssh.ServerConn
	User       string

	mu             sync.Mutex
	term           string
	width, height  int
	resizeCallback func()
}

func (uc *UserConnection) Start() error {
	return nil
}

func (uc *UserConnection) Stop() error {
	return nil
}

func (uc *UserConnection) Drain() error {
	return nil
}

func (uc *UserConnection) NotifyResize(callback func()) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.resizeCallback = callback
}

func (uc *UserConnection) WindowSize() (int, int, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.width, uc.height, nil
}

// Term is the TERM value sent with the pty request
func (uc *UserConnection) Term() string {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.term
}

// SetPty records the terminal type and size from a pty-req
func (uc *UserConnection) SetPty(term string, width, height int) {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.term = term
	uc.width, uc.height = width, height
}

// Resize records a window-change and tells tcell about it
func (uc *UserConnection) Resize(width, height int) {
	uc.mu.Lock()
	uc.width, uc.height = width, height
	callback := uc.resizeCallback
	uc.mu.Unlock()

	if callback != nil {
		callback()
	}
}

// parsePtyRequest decodes the TERM string and character size of a pty-req
// payload (RFC 4254 section 6.2). Pixel sizes and modes are ignored.
func parsePtyRequest(payload []byte) (string, int, int, bool) {
	term, rest, ok1 := parseString(payload)
	width, rest, ok2 := parseUint32(rest)
	height, _, ok3 := parseUint32(rest)
	if !ok1 || !ok2 || !ok3 {
		return "", 0, 0, false
	}
	return term, int(width), int(height), true
}

// parseWindowChange decodes the character size of a window-change payload
func parseWindowChange(payload []byte) (int, int, bool) {
	width, rest, ok1 := parseUint32(payload)
	height, _, ok2 := parseUint32(rest)
	if !ok1 || !ok2 {
		return 0, 0, false
	}
	return int(width), int(height), true
}

func parseString(in []byte) (string, []byte, bool) {
	length, tail, ok := parseUint32(in)
	if !ok || uint32(len(tail)) < length {
		return "", nil, false
	}

	return string(tail[:length]), tail[length:], true
}

func parseUint32(in []byte) (uint32, []byte, bool) {
	if len(in) < 4 {
		return 0, nil, false
	}
	return binary.BigEndian.Uint32(in), in[4:], true
}
