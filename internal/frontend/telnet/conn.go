package telnet

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"strings"
	"sync"
	"time"
)

// Telnet command and option bytes (RFC 854, 857, 858).
const (
	IAC  byte = 255
	DONT byte = 254
	DO   byte = 253
	WONT byte = 252
	WILL byte = 251
	SB   byte = 250
	SE   byte = 240
	NOP  byte = 241

	OptEcho            byte = 1
	OptSuppressGoAhead byte = 3
)

// maxLineLen bounds a single input line; longer input is truncated.
const maxLineLen = 1024

// Conn is a line-oriented Telnet connection. Reads are owned by the session
// goroutine; writes may come from any goroutine and are serialized.
type Conn struct {
	raw net.Conn
	in  *bufio.Reader

	wmu          sync.Mutex
	readTimeout  time.Duration
	writeTimeout time.Duration
}

// NewConn wraps raw. Zero timeouts disable the corresponding deadline.
//
// Precondition: raw must be an open connection.
func NewConn(raw net.Conn, readTimeout, writeTimeout time.Duration) *Conn {
	return &Conn{
		raw:          raw,
		in:           bufio.NewReaderSize(raw, 4096),
		readTimeout:  readTimeout,
		writeTimeout: writeTimeout,
	}
}

// Negotiate asks the client to suppress go-ahead.
func (c *Conn) Negotiate() error {
	return c.write(func(w io.Writer) error {
		_, err := w.Write([]byte{IAC, WILL, OptSuppressGoAhead})
		return err
	})
}

// ReadLine returns the next line of input without its line terminator.
// Telnet commands and control characters other than tab are dropped.
//
// Postcondition: Returns the line, or the partial line and an error
// (io.EOF, a timeout, or a closed connection).
func (c *Conn) ReadLine() (string, error) {
	if c.readTimeout > 0 {
		_ = c.raw.SetReadDeadline(time.Now().Add(c.readTimeout))
	}
	var b strings.Builder
	for {
		ch, err := c.in.ReadByte()
		if err != nil {
			return b.String(), err
		}
		switch {
		case ch == IAC:
			if err := c.skipCommand(); err != nil {
				return b.String(), err
			}
		case ch == '\n':
			return b.String(), nil
		case ch == '\r':
			if next, err := c.in.Peek(1); err == nil && next[0] == '\n' {
				_, _ = c.in.ReadByte()
			}
			return b.String(), nil
		case ch < 32 && ch != '\t':
		case b.Len() < maxLineLen:
			b.WriteByte(ch)
		}
	}
}

// skipCommand consumes the rest of a command whose IAC byte was just read.
func (c *Conn) skipCommand() error {
	cmd, err := c.in.ReadByte()
	if err != nil {
		return err
	}
	switch cmd {
	case WILL, WONT, DO, DONT:
		_, err = c.in.ReadByte()
		return err
	case SB:
		var prev byte
		for {
			ch, err := c.in.ReadByte()
			if err != nil {
				return err
			}
			if prev == IAC && ch == SE {
				return nil
			}
			prev = ch
		}
	}
	return nil
}

// WriteLine sends text followed by CRLF.
func (c *Conn) WriteLine(text string) error {
	return c.WriteLines(text)
}

// WriteLines sends each line followed by CRLF as one uninterrupted write, so
// output from other goroutines never interleaves with it.
func (c *Conn) WriteLines(lines ...string) error {
	return c.write(func(w io.Writer) error {
		for _, l := range lines {
			if _, err := io.WriteString(w, l+"\r\n"); err != nil {
				return err
			}
		}
		return nil
	})
}

// WritePrompt sends prompt without a line terminator.
func (c *Conn) WritePrompt(prompt string) error {
	return c.write(func(w io.Writer) error {
		_, err := fmt.Fprint(w, prompt)
		return err
	})
}

func (c *Conn) write(fn func(io.Writer) error) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	if c.writeTimeout > 0 {
		_ = c.raw.SetWriteDeadline(time.Now().Add(c.writeTimeout))
	}
	return fn(c.raw)
}

// Close closes the underlying connection, unblocking any pending ReadLine.
func (c *Conn) Close() error {
	return c.raw.Close()
}

// RemoteAddr returns the client's network address.
func (c *Conn) RemoteAddr() net.Addr {
	return c.raw.RemoteAddr()
}
