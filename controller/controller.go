package controller

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/boltdb/bolt"
	"github.com/francis-chui/rbush-knn/controller/collection"
	"github.com/francis-chui/rbush-knn/controller/log"
	"github.com/francis-chui/rbush-knn/controller/server"
	"github.com/francis-chui/rbush-knn/core"
	"github.com/google/btree"
	"github.com/tidwall/resp"
)

var errNoDataDir = errors.New("no data directory")

type collectionT struct {
	Key        string
	Collection *collection.Collection
}

func (col *collectionT) Less(item btree.Item) bool {
	return col.Key < item.(*collectionT).Key
}

// commandDetailsT describes a change made by a write command so that it can
// be written to the store.
type commandDetailsT struct {
	command string
	key, id string
	obj     *collection.Object
	updated bool
}

// Controller is the server state
type Controller struct {
	mu      sync.RWMutex
	dir     string
	cols    *btree.BTree
	config  Config
	db      *bolt.DB
	started time.Time

	lnmu sync.Mutex
	lns  []net.Listener
}

// New creates a controller. When dir is not empty the config and the
// collections are loaded from it and every change is written back.
func New(dir string, defaults Config) (*Controller, error) {
	c := &Controller{
		dir:     dir,
		cols:    btree.New(16),
		started: time.Now(),
	}
	if dir == "" {
		if err := c.initConfig(defaults); err != nil {
			return nil, err
		}
		return c, nil
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, err
	}
	if err := c.loadConfig(defaults); err != nil {
		return nil, err
	}
	if err := c.openStore(); err != nil {
		return nil, err
	}
	if err := c.loadStore(); err != nil {
		c.db.Close()
		return nil, err
	}
	return c, nil
}

// ListenAndServe starts a new server
func ListenAndServe(host string, port int, dir string, defaults Config) error {
	log.Infof("Server started, version %s, git %s", core.Version, core.GitSHA)
	c, err := New(dir, defaults)
	if err != nil {
		return err
	}
	defer c.Close()
	ln, err := net.Listen("tcp", fmt.Sprintf("%s:%d", host, port))
	if err != nil {
		return err
	}
	return c.Serve(ln)
}

// Serve handles connections on ln until it is closed.
func (c *Controller) Serve(ln net.Listener) error {
	c.lnmu.Lock()
	c.lns = append(c.lns, ln)
	c.lnmu.Unlock()
	return server.Serve(ln, c.handleInputCommand)
}

// Close stops the listeners and closes the store.
func (c *Controller) Close() error {
	c.lnmu.Lock()
	for _, ln := range c.lns {
		ln.Close()
	}
	c.lns = nil
	c.lnmu.Unlock()
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.db != nil {
		err := c.db.Close()
		c.db = nil
		return err
	}
	return nil
}

func (c *Controller) setCol(key string, col *collection.Collection) {
	c.cols.ReplaceOrInsert(&collectionT{Key: key, Collection: col})
}

func (c *Controller) getCol(key string) *collection.Collection {
	item := c.cols.Get(&collectionT{Key: key})
	if item == nil {
		return nil
	}
	return item.(*collectionT).Collection
}

func (c *Controller) scanGreaterOrEqual(key string, iterator func(key string, col *collection.Collection) bool) {
	c.cols.AscendGreaterOrEqual(&collectionT{Key: key}, func(item btree.Item) bool {
		col := item.(*collectionT)
		return iterator(col.Key, col.Collection)
	})
}

func (c *Controller) deleteCol(key string) *collection.Collection {
	i := c.cols.Delete(&collectionT{Key: key})
	if i == nil {
		return nil
	}
	return i.(*collectionT).Collection
}

func (c *Controller) handleInputCommand(conn *server.Conn, values []resp.Value, w io.Writer) error {
	command := strings.ToLower(values[0].String())
	if command == "config" && len(values) > 1 {
		command += " " + strings.ToLower(values[1].String())
		values = values[1:]
	}
	writeOutput := func(v resp.Value) error {
		data, err := v.MarshalRESP()
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	}
	writeErr := func(err error) error {
		if err == errInvalidNumberOfArguments {
			return writeOutput(resp.ErrorValue(errors.New("ERR wrong number of arguments for '" + command + "' command")))
		}
		return writeOutput(resp.ErrorValue(errors.New("ERR " + err.Error())))
	}

	// Ping. Just send back the response. No need to put through the pipeline.
	if command == "ping" {
		if len(values) > 1 {
			return writeOutput(resp.StringValue(values[1].String()))
		}
		return writeOutput(resp.SimpleStringValue("PONG"))
	}

	var write bool
	// choose the locking strategy
	switch command {
	default:
		c.mu.RLock()
		defer c.mu.RUnlock()
	case "set", "del", "drop", "flushdb":
		// write operations
		write = true
		c.mu.Lock()
		defer c.mu.Unlock()
	case "get", "keys", "scan", "nearby", "intersects", "stats", "server", "config get":
		// read operations
		c.mu.RLock()
		defer c.mu.RUnlock()
	case "config set", "config rewrite":
		// system operations
		// does not write to the store, but requires a write lock.
		c.mu.Lock()
		defer c.mu.Unlock()
	}

	res, d, err := c.command(command, values)
	if err != nil {
		return writeErr(err)
	}
	if write && d.updated {
		if err := c.writeStore(&d); err != nil {
			log.Errorf("store: %v", err)
			return writeErr(err)
		}
	}
	return writeOutput(res)
}

func randomKey(n int) string {
	b := make([]byte, n)
	nn, err := rand.Read(b)
	if err != nil {
		panic(err)
	}
	if nn != n {
		panic("random failed")
	}
	return fmt.Sprintf("%x", b)
}

func (c *Controller) command(command string, values []resp.Value) (res resp.Value, d commandDetailsT, err error) {
	vs := values[1:]
	switch command {
	default:
		if strings.HasPrefix(command, "config ") {
			err = errInvalidArgument(values[0].String())
			return
		}
		err = fmt.Errorf("unknown command '%s'", values[0])
	case "set":
		res, d, err = c.cmdSet(vs)
	case "del":
		res, d, err = c.cmdDel(vs)
	case "drop":
		res, d, err = c.cmdDrop(vs)
	case "flushdb":
		res, d, err = c.cmdFlushDB(vs)
	case "get":
		res, err = c.cmdGet(vs)
	case "keys":
		res, err = c.cmdKeys(vs)
	case "stats":
		res, err = c.cmdStats(vs)
	case "server":
		res, err = c.cmdServer(vs)
	case "scan":
		res, err = c.cmdScan(vs)
	case "intersects":
		res, err = c.cmdIntersects(vs)
	case "nearby":
		res, err = c.cmdNearby(vs)
	case "config get":
		res, err = c.cmdConfigGet(vs)
	case "config set":
		res, err = c.cmdConfigSet(vs)
	case "config rewrite":
		res, err = c.cmdConfigRewrite(vs)
	case "config":
		err = errInvalidNumberOfArguments
	}
	return
}
