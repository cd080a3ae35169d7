package terminal

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"net"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"snake-game/game"
	"snake-game/game/types"

	"github.com/gdamore/tcell/v2"
	"github.com/gdamore/tcell/v2/terminfo"
	"github.com/golang/glog"
	"golang.org/x/crypto/ssh"
)

// ServerOptions configures the ssh frontend
type ServerOptions struct {
	Address            string
	HostKeyFile        string
	Password           string
	AuthorizedKeysFile string

	Grid types.Grid
	Tick time.Duration
	Seed uint64
}

// Server hands every ssh shell its own single-player game
type Server struct {
	opts     ServerOptions
	config   *ssh.ServerConfig
	sessions atomic.Uint64
	active   atomic.Int64
	wg       sync.WaitGroup
}

func NewServer(opts ServerOptions) (*Server, error) {
	if err := opts.Grid.Validate(); err != nil {
		return nil, fmt.Errorf("ssh server: %w", err)
	}
	if opts.Password == "" && opts.AuthorizedKeysFile == "" {
		return nil, errors.New("ssh server: needs a password or an authorized keys file")
	}

	bytes, err := os.ReadFile(opts.HostKeyFile)
	if err != nil {
		return nil, fmt.Errorf("read host key: %w", err)
	}
	privateKey, err := ssh.ParsePrivateKey(bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key %s: %w", opts.HostKeyFile, err)
	}

	authorizedKeys := map[string]bool{}
	if len(opts.AuthorizedKeysFile) > 0 {
		bytes, err := os.ReadFile(opts.AuthorizedKeysFile)
		if err != nil {
			return nil, fmt.Errorf("read authorized keys: %w", err)
		}
		if authorizedKeys, err = parseAuthorizedKeys(bytes); err != nil {
			return nil, fmt.Errorf("failed to parse authorized keys from %s: %w", opts.AuthorizedKeysFile, err)
		}
	}

	config := &ssh.ServerConfig{
		PublicKeyCallback: func(conn ssh.ConnMetadata, key ssh.PublicKey) (*ssh.Permissions, error) {
			if !authorizedKeys[string(key.Marshal())] {
				return nil, errors.New("unknown key")
			}
			return nil, nil
		},
	}
	if len(opts.Password) != 0 {
		config.PasswordCallback = func(conn ssh.ConnMetadata, password []byte) (*ssh.Permissions, error) {
			if opts.Password != string(password) {
				return nil, errors.New("wrong password")
			}
			return nil, nil
		}
	}
	config.AddHostKey(privateKey)

	return &Server{opts: opts, config: config}, nil
}

// Active is the number of games currently being played
func (s *Server) Active() int64 {
	return s.active.Load()
}

// Sessions is the number of games started since the server was created
func (s *Server) Sessions() uint64 {
	return s.sessions.Load()
}

func parseAuthorizedKeys(bytes []byte) (map[string]bool, error) {
	keys := map[string]bool{}
	for len(bytes) > 0 {
		publicKey, _, _, rest, err := ssh.ParseAuthorizedKey(bytes)
		if err != nil {
			return nil, err
		}
		keys[string(publicKey.Marshal())] = true
		bytes = rest
	}
	return keys, nil
}

// ListenAndServe listens on the configured address and serves until ctx is done
func (s *Server) ListenAndServe(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.opts.Address)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	glog.Infof("[server] SSH Server listening on %s", listener.Addr())
	return s.Serve(ctx, listener)
}

// Serve accepts connections until ctx is done, then waits for running
// sessions to finish. Sessions end on their own once ctx is done.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	go func() {
		<-ctx.Done()
		glog.Infof("[server] shutting down, %d sessions active", s.active.Load())
		if err := listener.Close(); err != nil {
			glog.Warningf("[server] close listener: %s", err)
		}
	}()

	defer s.wg.Wait()
	for {
		rawconn, err := listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			glog.Warning(err)
			continue
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleConn(ctx, rawconn)
		}()
	}
}

func (s *Server) handleConn(ctx context.Context, rawconn net.Conn) {
	conn, chans, reqs, err := ssh.NewServerConn(rawconn, s.config)
	if err != nil {
		glog.Warningf("ssh connection handshake failed: %s", err)
		return
	}
	defer conn.Close()

	// Close the connection on shutdown so chans ends
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	glog.Infof("[server][user=%#v] connection established, addr=%#v, session-id=0x%s...",
		conn.User(), conn.RemoteAddr().String(), hex.EncodeToString(conn.SessionID()[:12]))
	go ssh.DiscardRequests(reqs)

	for channelreq := range chans {
		if channelreq.ChannelType() != "session" {
			channelreq.Reject(ssh.UnknownChannelType, "Unknown Channel Type")
			continue
		}

		channel, requests, err := channelreq.Accept()
		if err != nil {
			glog.Warning(err)
			return
		}

		user := &UserConnection{
			Channel:    channel,
			Connection: conn,
			User:       conn.User(),
		}
		glog.Infof("[server][user=%#v] session established", user.User)
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleRequests(ctx, user, requests)
		}()
	}
}

func (s *Server) handleRequests(ctx context.Context, user *UserConnection, requests <-chan *ssh.Request) {
	started := false
	for req := range requests {
		switch req.Type {
		case "pty-req":
			term, width, height, ok := parsePtyRequest(req.Payload)
			if !ok {
				glog.Warningf("[pty-req:user=%#v] invalid request payload", user.User)
				req.Reply(false, nil)
				continue
			}
			user.SetPty(term, width, height)
			req.Reply(true, nil)
			glog.V(1).Infof("[server][user=%#v] terminal: %s, size: %dx%d", user.User, term, width, height)
		case "window-change":
			width, height, ok := parseWindowChange(req.Payload)
			if !ok {
				glog.Warningf("[window-change:user=%#v] invalid window change request", user.User)
				req.Reply(false, nil)
				continue
			}
			user.Resize(width, height)
			req.Reply(true, nil)
		case "shell":
			if started {
				req.Reply(false, nil)
				continue
			}
			screen, err := s.newScreen(user)
			if err != nil {
				glog.Warningf("[shell:user=%#v] error: %s", user.User, err)
				req.Reply(false, nil)
				continue
			}
			started = true
			s.wg.Add(1)
			go func() {
				defer s.wg.Done()
				s.play(ctx, user, screen)
			}()
			req.Reply(true, nil)
		default:
			glog.V(1).Infof("[server][user=%#v] Unknown req.Type %q", user.User, req.Type)
			if req.WantReply {
				req.Reply(false, nil)
			}
		}
	}
}

func (s *Server) newScreen(user *UserConnection) (tcell.Screen, error) {
	ti, err := terminfo.LookupTerminfo(user.Term())
	if err != nil {
		return nil, err
	}
	screen, err := tcell.NewTerminfoScreenFromTtyTerminfo(user, ti)
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("screen.Init: %w", err)
	}
	return screen, nil
}

func (s *Server) play(ctx context.Context, user *UserConnection, screen tcell.Screen) {
	defer user.Close()
	defer screen.Fini()

	n := s.sessions.Add(1)
	s.active.Add(1)
	defer s.active.Add(-1)
	g, err := game.NewGame(s.opts.Grid, s.opts.Seed+n)
	if err != nil {
		glog.Errorf("[user=%#v] %s", user.User, err)
		return
	}

	name := fmt.Sprintf("[user=%#v]", user.User)
	if err := Play(ctx, screen, g, s.opts.Tick, name); err != nil {
		glog.Warningf("%s: %s", name, err)
	}
	g.Finish()
	stats := g.Stats()
	glog.Infof("%s: best score %d, average %.1f", name, stats.MaxScore(), stats.AverageScore())
}
