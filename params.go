package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/launchdarkly/go-expectations/expectations"
	"github.com/launchdarkly/go-expectations/framework/ldtest"
)

type stringList []string

func (l stringList) String() string { return strings.Join(l, ",") }

func (l *stringList) Set(value string) error {
	*l = append(*l, value)
	return nil
}

type commandParams struct {
	files          stringList
	caseDirs       stringList
	filters        ldtest.RegexFilters
	skipFile       string
	recordFailures string
	debug          bool
	debugAll       bool
}

func (c *commandParams) Read(args []string) bool {
	fs := flag.NewFlagSet("", flag.ExitOnError)
	fs.Var(&c.files, "file", "expectation file(s) to check (default "+expectations.DefaultExpectationFile+")")
	fs.Var(&c.caseDirs, "cases", "director(ies) of case files whose cases must all have recorded expectations")
	fs.Var(&c.filters.MustMatch, "run", "regex pattern(s) to select entries to check")
	fs.Var(&c.filters.MustNotMatch, "skip", "regex pattern(s) to select entries not to check")
	fs.StringVar(&c.skipFile, "skip-from", "", "file of entry IDs not to check, one per line")
	fs.StringVar(&c.recordFailures, "record-failures", "", "write the IDs of failed entries to the specified path")
	fs.BoolVar(&c.debug, "debug", false, "show recorded values for failed entries")
	fs.BoolVar(&c.debugAll, "debug-all", false, "show recorded values for all entries")

	if err := fs.Parse(args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		fs.Usage()
		return false
	}
	if len(c.files) == 0 {
		wd, err := os.Getwd()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return false
		}
		c.files = stringList{filepath.Join(wd, expectations.DefaultExpectationFile)}
	}
	return true
}
