// Copyright (c) 2019 Uber Technologies, Inc.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package main

import (
	"fmt"
	"os"

	flags "github.com/jessevdk/go-flags"
	_ "github.com/uber-go/lbfactory/registries/etcd"
	_ "github.com/uber-go/lbfactory/registries/fallback"
	_ "github.com/uber-go/lbfactory/registries/kubernetes"
	_ "github.com/uber-go/lbfactory/registries/memory"
	_ "github.com/uber-go/lbfactory/registries/redis"
	_ "github.com/uber-go/lbfactory/registries/yarpc"
	_ "github.com/uber-go/lbfactory/registries/zookeeper"
)

// for testing, we make exit an overridable routine
type exiter func(int)

var exit exiter = os.Exit

// these are overridden at build-time w/ the -ldflags -X option
var (
	version   = "0.0.0"
	githash   = "master"
	timestamp = "now"
)

// BuildInfo reports information about the binary build environment
type BuildInfo struct{}

func (b BuildInfo) String() string {
	return fmt.Sprintf("Version:\t%s\nGit Commit:\t%s\nUTC Build Time:\t%s", version, githash, timestamp)
}

// Execute prints the build info
func (b BuildInfo) Execute(args []string) error {
	fmt.Printf("%s\n", b)
	return nil
}

// GlobalOptions are options for all subcommands
type GlobalOptions struct {
	Config   string   `short:"c" long:"config" default:"lbfactory.yaml" description:"Path of the section configuration file."`
	Registry string   `long:"registry" description:"Overrides the registry named in the config file. Options: memory, redis, etcd, zookeeper, kubernetes, yarpc."`
	Timeout  timeFlag `long:"timeout" description:"Overrides the registry lookup timeout. E.g., 100ms, 0.5s, 1s. If no unit is specified, milliseconds are assumed."`
	Debug    bool     `long:"debug" description:"Log at debug level in a human readable format"`
	Version  bool     `long:"version" description:"Display version info"`
}

var options GlobalOptions

func main() {
	buildInfo := &BuildInfo{}
	OptionsParser := flags.NewParser(&options, flags.PassAfterNonOption|flags.HelpFlag)
	OptionsParser.ShortDescription = "lbresolve - inspect and serve database section routing"
	OptionsParser.LongDescription = `
lbresolve resolves which section a wiki database is routed to, asking the
configured registry for databases missing from the static assignment`
	_, _ = OptionsParser.AddCommand("version", "display build info", "display build info", &BuildInfo{})
	_, _ = OptionsParser.AddCommand("resolve", "resolve sections", "print the section and servers each domain is routed to", &ResolveCmd{})
	_, _ = OptionsParser.AddCommand("serve", "serve admin API", "start the admin HTTP API until interrupted", &ServeCmd{})

	_, err := OptionsParser.Parse()

	if options.Version {
		fmt.Fprintf(os.Stdout, "%s\n", buildInfo.String())
		options.Version = false // for tests, we leak state between runs
		exit(0)
		return
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		exit(1)
		return
	}

	exit(0)
}
