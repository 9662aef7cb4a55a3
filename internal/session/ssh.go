package session

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/crypto/ssh"

	"github.com/scottpeterman/termtelent-sub002/internal/exception"
	"github.com/scottpeterman/termtelent-sub002/internal/logger"
)

// DefaultPort is the management port used for device sessions and probes
const DefaultPort = 22

// SSHDialer is our Dialer implementation over plain password SSH
type SSHDialer struct {
	port int
	log  logger.Logger
}

// NewSSHDialer returns a new instance of SSHDialer
func NewSSHDialer() *SSHDialer {
	return &SSHDialer{
		port: DefaultPort,
		log:  logger.New(),
	}
}

// Dial opens an SSH connection to the device and returns a command session
func (d *SSHDialer) Dial(ctx context.Context, address string, creds Credentials, timeout time.Duration) (Session, error) {
	config := &ssh.ClientConfig{
		User: creds.Username,
		Auth: []ssh.AuthMethod{
			ssh.Password(creds.Password),
			ssh.KeyboardInteractive(keyboardChallenge(creds.Password)),
		},
		// network gear rarely has stable host keys across RMAs
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         timeout,
		Config: ssh.Config{
			// legacy switch images still negotiate these
			KeyExchanges: append(defaultKexAlgos(), "diffie-hellman-group1-sha1", "diffie-hellman-group14-sha1"),
			Ciphers:      append(defaultCiphers(), "aes128-cbc", "3des-cbc"),
		},
	}

	addr := fmt.Sprintf("%s:%d", address, d.port)

	dialer := &net.Dialer{Timeout: timeout}

	conn, err := dialer.DialContext(ctx, "tcp", addr)

	if err != nil {
		return nil, errors.Wrapf(exception.ErrUnreachable, "dial %s: %s", addr, err)
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(conn, addr, config)

	if err != nil {
		conn.Close()

		if strings.Contains(err.Error(), "unable to authenticate") {
			return nil, errors.Wrapf(exception.ErrAuthenticationFailed, "%s: %s", address, err)
		}

		return nil, errors.Wrapf(err, "ssh handshake with %s failed", address)
	}

	d.log.Debug().Str("address", address).Msg("ssh session established")

	return &sshSession{
		address: address,
		client:  ssh.NewClient(sshConn, chans, reqs),
	}, nil
}

// sshSession is our Session implementation backed by an ssh client
type sshSession struct {
	address string
	client  *ssh.Client
}

func (s *sshSession) Run(ctx context.Context, cmd string) (string, error) {
	sess, err := s.client.NewSession()

	if err != nil {
		return "", errors.Wrapf(err, "failed to open channel to %s", s.address)
	}

	defer sess.Close()

	var buf bytes.Buffer
	sess.Stdout = &buf
	sess.Stderr = &buf

	done := make(chan error, 1)

	go func() {
		done <- sess.Run(cmd)
	}()

	select {
	case <-ctx.Done():
		// closing the channel unblocks the remote command
		sess.Close()
		return "", errors.Wrapf(exception.ErrOperationTimeout, "%q on %s", cmd, s.address)
	case err = <-done:
		if err != nil {
			return buf.String(), errors.Wrapf(err, "%q on %s", cmd, s.address)
		}
	}

	return buf.String(), nil
}

func (s *sshSession) Close() error {
	return s.client.Close()
}

// keyboardChallenge answers every interactive prompt with the password,
// which is how most network devices present password auth
func keyboardChallenge(password string) ssh.KeyboardInteractiveChallenge {
	return func(name, instruction string, questions []string, echos []bool) ([]string, error) {
		answers := make([]string, len(questions))
		for i := range questions {
			answers[i] = password
		}
		return answers, nil
	}
}

func defaultKexAlgos() []string {
	return []string{
		"curve25519-sha256",
		"curve25519-sha256@libssh.org",
		"ecdh-sha2-nistp256",
		"ecdh-sha2-nistp384",
		"ecdh-sha2-nistp521",
		"diffie-hellman-group14-sha256",
	}
}

func defaultCiphers() []string {
	return []string{
		"aes128-gcm@openssh.com",
		"chacha20-poly1305@openssh.com",
		"aes128-ctr", "aes192-ctr", "aes256-ctr",
	}
}
