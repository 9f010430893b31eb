package mailer

import (
	"bufio"
	"context"
	"net"
	"strconv"
	"strings"
	"sync"
	"testing"
)

// fakeSMTPServer speaks just enough ESMTP for one delivery. It advertises
// neither STARTTLS nor AUTH and records every client command.
type fakeSMTPServer struct {
	ln net.Listener

	mu       sync.Mutex
	commands []string
	done     chan struct{}
}

func newFakeSMTPServer(t *testing.T) *fakeSMTPServer {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen failed: %v", err)
	}

	s := &fakeSMTPServer{
		ln:   ln,
		done: make(chan struct{}),
	}
	t.Cleanup(func() { _ = ln.Close() })

	go s.serveOne()
	return s
}

func (s *fakeSMTPServer) serveOne() {
	defer close(s.done)

	conn, err := s.ln.Accept()
	if err != nil {
		return
	}
	defer conn.Close()

	r := bufio.NewReader(conn)
	write := func(line string) {
		_, _ = conn.Write([]byte(line + "\r\n"))
	}

	write("220 fake ESMTP ready")
	inData := false
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return
		}
		line = strings.TrimRight(line, "\r\n")

		if inData {
			if line == "." {
				inData = false
				write("250 OK message accepted")
			}
			continue
		}

		s.mu.Lock()
		s.commands = append(s.commands, line)
		s.mu.Unlock()

		verb := strings.ToUpper(line)
		switch {
		case strings.HasPrefix(verb, "EHLO"), strings.HasPrefix(verb, "HELO"):
			write("250-fake greets you")
			write("250 SIZE 10240000")
		case strings.HasPrefix(verb, "MAIL FROM"):
			write("250 OK")
		case strings.HasPrefix(verb, "RCPT TO"):
			write("250 OK")
		case verb == "DATA":
			inData = true
			write("354 end with <CRLF>.<CRLF>")
		case verb == "QUIT":
			write("221 bye")
			return
		default:
			write("500 unrecognized")
		}
	}
}

func (s *fakeSMTPServer) addr(t *testing.T) (string, int) {
	t.Helper()

	host, portStr, err := net.SplitHostPort(s.ln.Addr().String())
	if err != nil {
		t.Fatalf("split addr failed: %v", err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		t.Fatalf("bad port %q: %v", portStr, err)
	}
	return host, port
}

func (s *fakeSMTPServer) sawCommand(prefix string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, cmd := range s.commands {
		if strings.HasPrefix(strings.ToUpper(cmd), strings.ToUpper(prefix)) {
			return true
		}
	}
	return false
}

func TestSMTPSendWithoutAuthExtension(t *testing.T) {
	srv := newFakeSMTPServer(t)
	host, port := srv.addr(t)

	m := NewSMTP(SMTPConfig{
		Host:     host,
		Port:     port,
		Username: "mailer",
		Password: "secret",
		From:     "Site <no-reply@example.com>",
	})

	err := m.Send(context.Background(), "user@example.com", "Your login link", "Click here to log in:\n\nhttps://example.com")
	if err != nil {
		t.Fatalf("Send failed against AUTH-less server: %v", err)
	}

	<-srv.done

	if srv.sawCommand("AUTH") {
		t.Fatal("client attempted AUTH against a server that does not advertise it")
	}
	if !srv.sawCommand("QUIT") {
		t.Fatal("client dropped the connection without QUIT")
	}
	if !srv.sawCommand("MAIL FROM:<no-reply@example.com>") {
		t.Fatal("envelope sender not extracted from the From header")
	}
}
