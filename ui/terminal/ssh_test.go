package terminal

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/binary"
	"encoding/pem"
	"io"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"snake-game/game/types"

	"golang.org/x/crypto/ssh"
)

func writeHostKey(t *testing.T) (string, ssh.Signer) {
	t.Helper()
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	der, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "host_key")
	if err := os.WriteFile(path, pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}), 0600); err != nil {
		t.Fatal(err)
	}
	signer, err := ssh.NewSignerFromKey(priv)
	if err != nil {
		t.Fatal(err)
	}
	return path, signer
}

func testOptions(hostKey string) ServerOptions {
	return ServerOptions{
		Address:     "127.0.0.1:0",
		HostKeyFile: hostKey,
		Password:    "secret",
		Grid:        types.Grid{Width: 10, Height: 10},
		Tick:        50 * time.Millisecond,
		Seed:        1,
	}
}

func TestNewServerErrors(t *testing.T) {
	hostKey, _ := writeHostKey(t)

	missing := testOptions(filepath.Join(t.TempDir(), "nope"))
	if _, err := NewServer(missing); err == nil {
		t.Error("NewServer accepted a missing host key")
	}

	badGrid := testOptions(hostKey)
	badGrid.Grid = types.Grid{}
	if _, err := NewServer(badGrid); err == nil {
		t.Error("NewServer accepted an empty grid")
	}

	noAuth := testOptions(hostKey)
	noAuth.Password = ""
	if _, err := NewServer(noAuth); err == nil {
		t.Error("NewServer accepted a server without password or authorized keys")
	}

	garbage := filepath.Join(t.TempDir(), "authorized_keys")
	if err := os.WriteFile(garbage, []byte("not a key\n"), 0600); err != nil {
		t.Fatal(err)
	}
	badKeys := testOptions(hostKey)
	badKeys.AuthorizedKeysFile = garbage
	if _, err := NewServer(badKeys); err == nil {
		t.Error("NewServer accepted a broken authorized_keys file")
	}
}

func TestParseAuthorizedKeys(t *testing.T) {
	_, signer := writeHostKey(t)
	line := ssh.MarshalAuthorizedKey(signer.PublicKey())

	keys, err := parseAuthorizedKeys(append(line, line...))
	if err != nil {
		t.Fatalf("parseAuthorizedKeys: %v", err)
	}
	if len(keys) != 1 || !keys[string(signer.PublicKey().Marshal())] {
		t.Errorf("keys = %v, want the one public key", keys)
	}
}

type testServer struct {
	server *Server
	addr   string
	cancel context.CancelFunc
	served chan error
}

func startServer(t *testing.T, opts ServerOptions) *testServer {
	t.Helper()
	server, err := NewServer(opts)
	if err != nil {
		t.Fatalf("NewServer: %v", err)
	}
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	ts := &testServer{server: server, addr: listener.Addr().String(), cancel: cancel, served: make(chan error, 1)}
	go func() { ts.served <- server.Serve(ctx, listener) }()
	t.Cleanup(cancel)
	return ts
}

func (ts *testServer) dial(password string) (*ssh.Client, error) {
	return ssh.Dial("tcp", ts.addr, &ssh.ClientConfig{
		User:            "player",
		Auth:            []ssh.AuthMethod{ssh.Password(password)},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         5 * time.Second,
	})
}

// stop cancels the server and waits for Serve to return
func (ts *testServer) stop(t *testing.T) {
	t.Helper()
	ts.cancel()
	select {
	case err := <-ts.served:
		if err != nil {
			t.Errorf("Serve returned %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}
}

func TestServerPasswordAuth(t *testing.T) {
	hostKey, _ := writeHostKey(t)
	ts := startServer(t, testOptions(hostKey))
	dial := ts.dial

	if client, err := dial("wrong"); err == nil {
		client.Close()
		t.Error("login with the wrong password succeeded")
	}

	client, err := dial("secret")
	if err != nil {
		t.Fatalf("login with the right password failed: %v", err)
	}
	client.Close()

	ts.stop(t)
}

func TestServerWithoutPasswordRefusesPasswordLogins(t *testing.T) {
	hostKey, signer := writeHostKey(t)
	keys := filepath.Join(t.TempDir(), "authorized_keys")
	if err := os.WriteFile(keys, ssh.MarshalAuthorizedKey(signer.PublicKey()), 0600); err != nil {
		t.Fatal(err)
	}
	opts := testOptions(hostKey)
	opts.Password = ""
	opts.AuthorizedKeysFile = keys
	ts := startServer(t, opts)

	if client, err := ts.dial(""); err == nil {
		client.Close()
		t.Error("empty password login succeeded")
	}
	if client, err := ts.dial("anything"); err == nil {
		client.Close()
		t.Error("password login succeeded without a configured password")
	}

	client, err := ssh.Dial("tcp", ts.addr, &ssh.ClientConfig{
		User:            "player",
		Auth:            []ssh.AuthMethod{ssh.PublicKeys(signer)},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         5 * time.Second,
	})
	if err != nil {
		t.Fatalf("public key login failed: %v", err)
	}
	client.Close()

	ts.stop(t)
}

func TestServeWaitsForRunningGames(t *testing.T) {
	hostKey, _ := writeHostKey(t)
	ts := startServer(t, testOptions(hostKey))

	client, err := ts.dial("secret")
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer client.Close()

	session, err := client.NewSession()
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	session.Stdout = io.Discard
	if _, err := session.StdinPipe(); err != nil {
		t.Fatal(err)
	}
	if err := session.RequestPty("xterm", 30, 80, ssh.TerminalModes{}); err != nil {
		t.Fatalf("RequestPty: %v", err)
	}
	if err := session.Shell(); err != nil {
		t.Fatalf("Shell: %v", err)
	}

	ts.stop(t)

	if got := ts.server.Sessions(); got != 1 {
		t.Errorf("Sessions() = %d, want 1", got)
	}
	if got := ts.server.Active(); got != 0 {
		t.Errorf("Active() = %d after Serve returned, want 0", got)
	}
}

func ptyPayload(term string, width, height uint32) []byte {
	var b []byte
	b = binary.BigEndian.AppendUint32(b, uint32(len(term)))
	b = append(b, term...)
	b = binary.BigEndian.AppendUint32(b, width)
	b = binary.BigEndian.AppendUint32(b, height)
	// pixel sizes and an empty mode list
	b = binary.BigEndian.AppendUint32(b, 0)
	b = binary.BigEndian.AppendUint32(b, 0)
	b = binary.BigEndian.AppendUint32(b, 0)
	return b
}

func TestParsePtyRequest(t *testing.T) {
	term, w, h, ok := parsePtyRequest(ptyPayload("xterm-256color", 120, 40))
	if !ok || term != "xterm-256color" || w != 120 || h != 40 {
		t.Errorf("parsePtyRequest = %q %d %d %v", term, w, h, ok)
	}

	if _, _, _, ok := parsePtyRequest([]byte{0, 0, 0, 9, 'x'}); ok {
		t.Error("parsePtyRequest accepted a truncated string")
	}
	if _, _, _, ok := parsePtyRequest(nil); ok {
		t.Error("parsePtyRequest accepted an empty payload")
	}
}

func TestParseWindowChange(t *testing.T) {
	payload := binary.BigEndian.AppendUint32(nil, 100)
	payload = binary.BigEndian.AppendUint32(payload, 30)
	if w, h, ok := parseWindowChange(payload); !ok || w != 100 || h != 30 {
		t.Errorf("parseWindowChange = %d %d %v", w, h, ok)
	}
	if _, _, ok := parseWindowChange(payload[:6]); ok {
		t.Error("parseWindowChange accepted a short payload")
	}
}

func TestUserConnectionResize(t *testing.T) {
	uc := &UserConnection{User: "player"}
	uc.SetPty("xterm", 80, 24)

	calls := 0
	uc.NotifyResize(func() { calls++ })
	uc.Resize(100, 50)

	w, h, err := uc.WindowSize()
	if err != nil || w != 100 || h != 50 {
		t.Errorf("WindowSize = %d %d %v, want 100 50", w, h, err)
	}
	if calls != 1 {
		t.Errorf("resize callback called %d times, want 1", calls)
	}
	if uc.Term() != "xterm" {
		t.Errorf("Term() = %q", uc.Term())
	}
}
