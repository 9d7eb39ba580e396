package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"

	"github.com/francis-chui/rbush-knn/controller"
	"github.com/francis-chui/rbush-knn/controller/log"
	"github.com/francis-chui/rbush-knn/core"
)

var (
	dir         string
	port        int
	host        string
	verbose     bool
	veryVerbose bool
	quiet       bool
	metricName  string
	limit       int
)

func main() {
	flag.IntVar(&port, "p", 9851, "The listening port.")
	flag.StringVar(&host, "h", "", "The listening host.")
	flag.StringVar(&dir, "d", "data", "The data directory. Empty keeps everything in memory.")
	flag.BoolVar(&verbose, "v", false, "Enable verbose logging.")
	flag.BoolVar(&quiet, "q", false, "Quiet logging. Totally silent.")
	flag.BoolVar(&veryVerbose, "vv", false, "Enable very verbose logging.")
	flag.StringVar(&metricName, "metric", "haversine", "Default NEARBY metric when the config file has none.")
	flag.IntVar(&limit, "limit", 20, "Default NEARBY limit when the config file has none.")
	flag.Parse()

	var logw io.Writer = os.Stderr
	if quiet {
		logw = io.Discard
	}
	log.Default = log.New(logw, &log.Config{
		HideDebug: !veryVerbose,
		HideWarn:  !(veryVerbose || verbose),
	})
	core.ShowDebugMessages = veryVerbose

	hostd := ""
	if host != "" {
		hostd = "Addr: " + host + ", "
	}
	gitsha := " (" + core.GitSHA + ")"
	if gitsha == " (0000000)" {
		gitsha = ""
	}
	fmt.Fprintf(logw, `
  rbush-knn %s%s %d bit (%s/%s)
  %sPort: %d, PID: %d
`+"\n", core.Version, gitsha, strconv.IntSize, runtime.GOARCH, runtime.GOOS, hostd, port, os.Getpid())

	defaults := controller.Config{DefaultMetric: metricName, DefaultLimit: limit}
	if err := controller.ListenAndServe(host, port, dir, defaults); err != nil {
		log.Fatal(err)
	}
}
