package server

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"

	"github.com/francis-chui/rbush-knn/controller/log"
	"github.com/francis-chui/rbush-knn/core"
	"github.com/tidwall/resp"
)

// Conn is a client connection.
type Conn struct {
	net.Conn
	// Telnet is set when the last command arrived as an inline command.
	Telnet bool
}

// Handler executes one command and writes its RESP encoded reply to w.
type Handler func(conn *Conn, values []resp.Value, w io.Writer) error

// ListenAndServe starts a server at the specified address.
func ListenAndServe(host string, port int, handler Handler) error {
	ln, err := net.Listen("tcp", fmt.Sprintf("%s:%d", host, port))
	if err != nil {
		return err
	}
	return Serve(ln, handler)
}

// Serve accepts connections on ln until it is closed.
func Serve(ln net.Listener, handler Handler) error {
	log.Infof("The server is now ready to accept connections at %s", ln.Addr())
	for {
		conn, err := ln.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			log.Error(err)
			continue
		}
		go handleConn(&Conn{Conn: conn}, handler)
	}
}

// OKMessage returns the RESP reply of a command that has no other result.
func OKMessage() resp.Value {
	return resp.SimpleStringValue("OK")
}

func handleConn(conn *Conn, handler Handler) {
	addr := conn.RemoteAddr().String()
	if core.ShowDebugMessages {
		log.Debugf("opened connection: %s", addr)
		defer func() {
			log.Debugf("closed connection: %s", addr)
		}()
	}
	defer conn.Close()
	rd := resp.NewReader(conn)
	for {
		err := func() error {
			v, telnet, _, err := rd.ReadMultiBulk()
			if err != nil {
				if err != io.EOF && !errors.Is(err, net.ErrClosed) {
					msg, _ := resp.ErrorValue(errors.New("ERR " + err.Error())).MarshalRESP()
					conn.Write(msg)
				}
				return err
			}
			values := v.Array()
			if len(values) == 0 {
				return nil
			}
			conn.Telnet = telnet
			if strings.ToLower(values[0].String()) == "quit" {
				msg, _ := OKMessage().MarshalRESP()
				conn.Write(msg)
				return io.EOF
			}
			var b bytes.Buffer
			if err := handler(conn, values, &b); err != nil {
				return err
			}
			_, err = conn.Write(b.Bytes())
			return err
		}()
		if err != nil {
			if err == io.EOF || errors.Is(err, net.ErrClosed) {
				return
			}
			log.Error(err)
			return
		}
	}
}
