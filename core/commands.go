package core

import (
	"encoding/json"
	"sort"
	"strings"
)

const (
	clear  = "\x1b[0m"
	bright = "\x1b[1m"
	gray   = "\x1b[90m"
	yellow = "\x1b[33m"
)

// Command describes a server command for help output and completion.
type Command struct {
	Name       string     `json:"-"`
	Summary    string     `json:"summary"`
	Complexity string     `json:"complexity"`
	Arguments  []Argument `json:"arguments"`
	Group      string     `json:"group"`
}

func (c Command) String() string {
	var s = c.Name
	for _, arg := range c.Arguments {
		s += " " + arg.String()
	}
	return s
}

func (c Command) TermOutput(indent string) string {
	line1 := bright + strings.Replace(c.String(), " ", " "+clear+gray, 1) + clear
	line2 := yellow + "summary: " + clear + c.Summary
	return indent + line1 + "\n" + indent + line2 + "\n"
}

type EnumArg struct {
	Name      string     `json:"name"`
	Arguments []Argument `json:"arguments"`
}

func (a EnumArg) String() string {
	var s = a.Name
	for _, arg := range a.Arguments {
		s += " " + arg.String()
	}
	return s
}

type Argument struct {
	Command  string      `json:"command"`
	NameAny  interface{} `json:"name"`
	TypeAny  interface{} `json:"type"`
	Optional bool        `json:"optional"`
	Multiple bool        `json:"multiple"`
	Variadic bool        `json:"variadic"`
	Enum     []string    `json:"enum"`
	EnumArgs []EnumArg   `json:"enumargs"`
}

func (a Argument) String() string {
	var s string
	if a.Command != "" {
		s += " " + a.Command
	}
	if len(a.EnumArgs) > 0 {
		eargs := ""
		for _, arg := range a.EnumArgs {
			v := arg.String()
			if strings.Contains(v, " ") {
				v = "(" + v + ")"
			}
			eargs += v + "|"
		}
		if len(eargs) > 0 {
			eargs = eargs[:len(eargs)-1]
		}
		s += " " + eargs
	} else if len(a.Enum) > 0 {
		s += " " + strings.Join(a.Enum, "|")
	} else {
		names, _ := a.NameTypes()
		subs := ""
		for _, name := range names {
			subs += " " + name
		}
		subs = strings.TrimSpace(subs)
		s += " " + subs
		if a.Variadic {
			s += " [" + subs + " ...]"
		}
		if a.Multiple {
			s += " ..."
		}
	}
	s = strings.TrimSpace(s)
	if a.Optional {
		s = "[" + s + "]"
	}
	return s
}

func parseAnyStringArray(any interface{}) []string {
	if str, ok := any.(string); ok {
		return []string{str}
	} else if any, ok := any.([]interface{}); ok {
		arr := []string{}
		for _, any := range any {
			if str, ok := any.(string); ok {
				arr = append(arr, str)
			}
		}
		return arr
	}
	return []string{}
}

func (a Argument) NameTypes() (names, types []string) {
	names = parseAnyStringArray(a.NameAny)
	types = parseAnyStringArray(a.TypeAny)
	if len(types) > len(names) {
		types = types[:len(names)]
	} else {
		for len(types) < len(names) {
			types = append(types, "")
		}
	}
	return
}

// Commands maps upper case command names to their descriptions.
var Commands = func() map[string]Command {
	var commands map[string]Command
	if err := json.Unmarshal([]byte(commandsJSON), &commands); err != nil {
		panic(err.Error())
	}
	for name, command := range commands {
		command.Name = strings.ToUpper(name)
		commands[name] = command
	}
	return commands
}()

// Groups returns the sorted command names of a group.
func Groups(group string) []string {
	var names []string
	for name, command := range Commands {
		if command.Group == group {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

var commandsJSON = `{
  "PING": {
    "summary": "Ping the server",
    "complexity": "O(1)",
    "group": "connection"
  },
  "QUIT": {
    "summary": "Close the connection",
    "complexity": "O(1)",
    "group": "connection"
  },
  "SET": {
    "summary": "Sets the value of an id",
    "complexity": "O(log N)",
    "arguments": [
      {"name": "key", "type": "string"},
      {"name": "id", "type": "string"},
      {
        "name": "value",
        "enumargs": [
          {"name": "OBJECT", "arguments": [{"name": "geojson", "type": "geojson"}]},
          {"name": "POINT", "arguments": [{"name": "lat", "type": "double"}, {"name": "lon", "type": "double"}]},
          {"name": "BOUNDS", "arguments": [
            {"name": "minlat", "type": "double"},
            {"name": "minlon", "type": "double"},
            {"name": "maxlat", "type": "double"},
            {"name": "maxlon", "type": "double"}
          ]}
        ]
      }
    ],
    "group": "keys"
  },
  "GET": {
    "summary": "Get the object of an id",
    "complexity": "O(log N)",
    "arguments": [
      {"name": "key", "type": "string"},
      {"name": "id", "type": "string"},
      {"name": "type", "enum": ["OBJECT", "POINT", "BOUNDS"], "optional": true}
    ],
    "group": "keys"
  },
  "DEL": {
    "summary": "Delete an id from a key",
    "complexity": "O(log N)",
    "arguments": [
      {"name": "key", "type": "string"},
      {"name": "id", "type": "string"}
    ],
    "group": "keys"
  },
  "DROP": {
    "summary": "Remove a key from the database",
    "complexity": "O(1)",
    "arguments": [
      {"name": "key", "type": "string"}
    ],
    "group": "keys"
  },
  "FLUSHDB": {
    "summary": "Removes all keys",
    "complexity": "O(N)",
    "arguments": [],
    "group": "keys"
  },
  "KEYS": {
    "summary": "Finds all keys matching the given pattern",
    "complexity": "O(N)",
    "arguments": [
      {"name": "pattern", "type": "pattern", "optional": true}
    ],
    "group": "keys"
  },
  "STATS": {
    "summary": "Show stats for one or more keys",
    "complexity": "O(N)",
    "arguments": [
      {"name": "key", "type": "string", "variadic": true}
    ],
    "group": "keys"
  },
  "SCAN": {
    "summary": "Incrementally iterate through a key in id order",
    "complexity": "O(N)",
    "arguments": [
      {"name": "key", "type": "string"},
      {"command": "CURSOR", "name": "start", "type": "integer", "optional": true},
      {"command": "LIMIT", "name": "count", "type": "integer", "optional": true}
    ],
    "group": "search"
  },
  "INTERSECTS": {
    "summary": "Searches for ids that intersect a bounding box",
    "complexity": "O(log(N)+M)",
    "arguments": [
      {"name": "key", "type": "string"},
      {"command": "LIMIT", "name": "count", "type": "integer", "optional": true},
      {"command": "WITHOBJECTS", "name": [], "optional": true},
      {"command": "BOUNDS", "name": ["minlat", "minlon", "maxlat", "maxlon"], "type": ["double", "double", "double", "double"]}
    ],
    "group": "search"
  },
  "NEARBY": {
    "summary": "Searches for the ids nearest to a point, nearest first",
    "complexity": "O(log(N)+K)",
    "arguments": [
      {"name": "key", "type": "string"},
      {"command": "LIMIT", "name": "count", "type": "integer", "optional": true},
      {"command": "METRIC", "name": "metric", "enum": ["euclidean", "haversine", "cosines", "equirectangular"], "optional": true},
      {"command": "WITHOBJECTS", "name": [], "optional": true},
      {"command": "POINT", "name": ["lat", "lon"], "type": ["double", "double"]}
    ],
    "group": "search"
  },
  "CONFIG GET": {
    "summary": "Get the value of a configuration parameter",
    "arguments": [
      {"name": "parameter", "type": "string"}
    ],
    "group": "server"
  },
  "CONFIG SET": {
    "summary": "Set a configuration parameter to the given value",
    "arguments": [
      {"name": "parameter", "type": "string"},
      {"name": "value", "type": "string"}
    ],
    "group": "server"
  },
  "CONFIG REWRITE": {
    "summary": "Rewrite the configuration file with the in memory configuration",
    "arguments": [],
    "group": "server"
  },
  "SERVER": {
    "summary": "Show server stats and details",
    "complexity": "O(1)",
    "arguments": [],
    "group": "server"
  }
}`
