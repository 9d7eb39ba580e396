package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"

	"github.com/francis-chui/rbush-knn/core"
	"github.com/gomodule/redigo/redis"
	"github.com/peterh/liner"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
)

func userHomeDir() string {
	if runtime.GOOS == "windows" {
		home := os.Getenv("HOMEDRIVE") + os.Getenv("HOMEPATH")
		if home == "" {
			home = os.Getenv("USERPROFILE")
		}
		return home
	}
	return os.Getenv("HOME")
}

var (
	historyFile = filepath.Join(userHomeDir(), ".rbush_knn_cli_history")
)

var (
	hostname   = "127.0.0.1"
	port       = 9851
	oneCommand []string
	raw        bool
)

func showHelp() bool {
	fmt.Fprintf(os.Stdout, "rbush-knn-cli %s (git:%s)\n\n", core.Version, core.GitSHA)
	fmt.Fprintf(os.Stdout, "Usage: rbush-knn-cli [OPTIONS] [cmd [arg [arg ...]]]\n")
	fmt.Fprintf(os.Stdout, " --raw              Use raw formatting for replies.\n")
	fmt.Fprintf(os.Stdout, " -h <hostname>      Server hostname (default: %s).\n", hostname)
	fmt.Fprintf(os.Stdout, " -p <port>          Server port (default: %d).\n", port)
	fmt.Fprintf(os.Stdout, "\n")
	return false
}

func parseArgs() bool {
	defer func() {
		if v := recover(); v != nil {
			if v, ok := v.(string); ok && v == "bad arg" {
				showHelp()
			}
		}
	}()

	args := os.Args[1:]
	readArg := func(arg string) string {
		if len(args) == 0 {
			panic("bad arg")
		}
		var narg = args[0]
		args = args[1:]
		return narg
	}
	badArg := func(arg string) bool {
		fmt.Fprintf(os.Stderr, "Unrecognized option or bad number of args for: '%s'\n", arg)
		return false
	}
	for len(args) > 0 {
		arg := readArg("")
		if arg == "--help" {
			return showHelp()
		}
		if !strings.HasPrefix(arg, "-") {
			args = append([]string{arg}, args...)
			break
		}
		switch arg {
		default:
			return badArg(arg)
		case "--raw":
			raw = true
		case "-h":
			hostname = readArg(arg)
		case "-p":
			n, err := strconv.ParseUint(readArg(arg), 10, 16)
			if err != nil {
				return badArg(arg)
			}
			port = int(n)
		}
	}
	oneCommand = args
	return true
}

func refusedErrorString(addr string) string {
	return fmt.Sprintf("Could not connect to rbush-knn at %s: Connection refused", addr)
}

func main() {
	if !parseArgs() {
		return
	}

	addr := fmt.Sprintf("%s:%d", hostname, port)
	conn, err := redis.Dial("tcp", addr)
	if err != nil {
		if _, ok := err.(net.Error); ok {
			fmt.Fprintln(os.Stderr, refusedErrorString(addr))
		} else {
			fmt.Fprintln(os.Stderr, err.Error())
		}
		os.Exit(1)
	}
	defer conn.Close()

	if len(oneCommand) > 0 {
		if err := do(conn, addr, oneCommand); err != nil {
			os.Exit(1)
		}
		return
	}

	line := liner.NewLiner()
	defer line.Close()

	var commands []string
	groupsM := make(map[string]bool)
	for name, command := range core.Commands {
		commands = append(commands, name)
		groupsM[command.Group] = true
	}
	sort.Strings(commands)
	var groups []string
	for group := range groupsM {
		groups = append(groups, "@"+group)
	}
	sort.Strings(groups)

	line.SetMultiLineMode(false)
	line.SetCtrlCAborts(true)
	line.SetCompleter(func(line string) (c []string) {
		if strings.HasPrefix(strings.ToLower(line), "help ") {
			var nitems []string
			nline := strings.TrimSpace(line[5:])
			if nline == "" || nline[0] == '@' {
				for _, n := range groups {
					if strings.HasPrefix(strings.ToLower(n), strings.ToLower(nline)) {
						nitems = append(nitems, line[:len(line)-len(nline)]+strings.ToLower(n))
					}
				}
			} else {
				for _, n := range commands {
					if strings.HasPrefix(strings.ToLower(n), strings.ToLower(nline)) {
						nitems = append(nitems, line[:len(line)-len(nline)]+strings.ToUpper(n))
					}
				}
			}
			for _, n := range nitems {
				if strings.HasPrefix(strings.ToLower(n), strings.ToLower(line)) {
					c = append(c, n)
				}
			}
		} else {
			for _, n := range commands {
				if strings.HasPrefix(strings.ToLower(n), strings.ToLower(line)) {
					c = append(c, n)
				}
			}
		}
		return
	})
	if f, err := os.Open(historyFile); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(historyFile); err != nil {
			fmt.Fprintln(os.Stderr, err.Error())
		} else {
			line.WriteHistory(f)
			f.Close()
		}
	}()
	for {
		command, err := line.Prompt(addr + "> ")
		if err == liner.ErrPromptAborted || err == io.EOF {
			return
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading line: %s\n", err.Error())
			return
		}
		nohist := strings.HasPrefix(command, " ")
		command = strings.TrimSpace(command)
		if command == "" {
			if _, err := conn.Do("PING"); err != nil {
				fmt.Fprintln(os.Stderr, refusedErrorString(addr))
				return
			}
			continue
		}
		if !nohist {
			line.AppendHistory(command)
		}
		switch lcmd := strings.ToLower(command); {
		case lcmd == "exit" || lcmd == "quit":
			return
		case lcmd == "raw":
			raw = true
			fmt.Fprintln(os.Stderr, "raw mode is ON")
			continue
		case lcmd == "pretty":
			raw = false
			fmt.Fprintln(os.Stderr, "raw mode is OFF")
			continue
		case lcmd == "help" || strings.HasPrefix(lcmd, "help "):
			help(strings.TrimSpace(command[4:]))
			continue
		}
		args, err := splitArgs(command)
		if err != nil {
			fmt.Fprintln(os.Stderr, "(error) "+err.Error())
			continue
		}
		if err := do(conn, addr, args); err != nil {
			if _, ok := err.(redis.Error); !ok {
				return
			}
		}
	}
}

// do sends one command and prints the reply.
func do(conn redis.Conn, addr string, args []string) error {
	cargs := make([]interface{}, len(args)-1)
	for i, arg := range args[1:] {
		cargs[i] = arg
	}
	reply, err := conn.Do(args[0], cargs...)
	if err != nil {
		if _, ok := err.(redis.Error); ok {
			fmt.Fprintln(os.Stderr, "(error) "+err.Error())
		} else if err == io.EOF {
			fmt.Fprintln(os.Stderr, refusedErrorString(addr))
		} else {
			fmt.Fprintln(os.Stderr, err.Error())
		}
		return err
	}
	if raw {
		writeRaw(os.Stdout, reply)
		return nil
	}
	data, err := json.Marshal(toJSON(reply))
	if err != nil {
		return err
	}
	os.Stdout.Write(pretty.Pretty(data))
	return nil
}

// toJSON converts a reply into a value for encoding/json. Bulk strings that
// hold JSON, such as stored objects, are embedded as is.
func toJSON(reply interface{}) interface{} {
	switch v := reply.(type) {
	case []byte:
		if gjson.ValidBytes(v) && (len(v) > 0 && (v[0] == '{' || v[0] == '[')) {
			return json.RawMessage(v)
		}
		return string(v)
	case []interface{}:
		arr := make([]interface{}, len(v))
		for i, item := range v {
			arr[i] = toJSON(item)
		}
		return arr
	default:
		return v
	}
}

func writeRaw(w io.Writer, reply interface{}) {
	switch v := reply.(type) {
	case []interface{}:
		for _, item := range v {
			writeRaw(w, item)
		}
	case []byte:
		fmt.Fprintln(w, string(v))
	case nil:
		fmt.Fprintln(w)
	default:
		fmt.Fprintln(w, v)
	}
}

// splitArgs splits a command line on spaces. Single and double quotes group
// words and a backslash escapes the next character inside double quotes.
func splitArgs(line string) ([]string, error) {
	var args []string
	var arg []byte
	var quote byte
	var inArg bool
	for i := 0; i < len(line); i++ {
		ch := line[i]
		switch {
		case quote != 0:
			switch {
			case ch == quote:
				quote = 0
			case ch == '\\' && quote == '"' && i+1 < len(line):
				i++
				arg = append(arg, line[i])
			default:
				arg = append(arg, ch)
			}
		case ch == '"' || ch == '\'':
			quote = ch
			inArg = true
		case ch == ' ' || ch == '\t':
			if inArg {
				args = append(args, string(arg))
				arg = arg[:0]
				inArg = false
			}
		default:
			arg = append(arg, ch)
			inArg = true
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("unbalanced quotes in request")
	}
	if inArg {
		args = append(args, string(arg))
	}
	return args, nil
}

func help(arg string) {
	if arg == "" {
		fmt.Fprintf(os.Stderr, "rbush-knn-cli %s (git:%s)\n", core.Version, core.GitSHA)
		fmt.Fprintf(os.Stderr, `Type: "help @<group>" to get a list of commands in <group>`+"\n")
		fmt.Fprintf(os.Stderr, `      "help <command>" for help on <command>`+"\n")
		fmt.Fprintf(os.Stderr, `      "help <tab>" to get a list of possible help topics`+"\n")
		fmt.Fprintf(os.Stderr, `      "quit" to exit`+"\n")
		return
	}
	if strings.HasPrefix(arg, "@") {
		for _, command := range core.Groups(arg[1:]) {
			fmt.Fprintf(os.Stderr, "%s\n", core.Commands[command].TermOutput("  "))
		}
	} else if command, ok := core.Commands[strings.ToUpper(arg)]; ok {
		fmt.Fprintf(os.Stderr, "%s\n", command.TermOutput("  "))
	}
}
