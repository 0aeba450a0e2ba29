/*
cssfinder computes short, unique CSS selectors for nodes in an html
document.

Have a look at the README.md for more information.
*/
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime/debug"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/alecthomas/kong"
	"github.com/andybalholm/cascadia"
	"github.com/jakopako/cssfinder/finder"
	"github.com/jakopako/cssfinder/internal/config"
	"github.com/jakopako/cssfinder/internal/fetch"
	"github.com/jakopako/cssfinder/internal/log"
	"github.com/jakopako/cssfinder/internal/utils"
	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"
)

var version = "dev"

type VersionFlag string

func (v VersionFlag) Decode(_ *kong.DecodeContext) error { return nil }
func (v VersionFlag) IsBool() bool                       { return true }
func (v VersionFlag) BeforeApply(app *kong.Kong, vars kong.Vars) error {
	fmt.Println(vars["version"])
	app.Exit(0)
	return nil
}

type cli struct {
	Version VersionFlag `short:"v" help:"Print the version and exit."`
	Debug   bool        `short:"d" help:"Set log level to 'debug'."`

	Find       FindCmd       `cmd:"" default:"withargs" help:"Compute a unique selector for the node(s) the given selector matches."`
	DumpConfig DumpConfigCmd `cmd:"" help:"Print the effective finder configuration as YAML."`
}

type FindCmd struct {
	Rules    string `short:"r" help:"The location of a YAML rules file restricting which ids, classes, tags and attributes may be used."`
	All      bool   `short:"a" help:"Print a table with a unique selector for every match instead of only the first one."`
	RenderJS bool   `short:"j" help:"Render JavaScript before computing selectors. Requires chrome."`
	Source   string `arg:"" help:"The URL or file to load. '-' reads from stdin."`
	Selector string `arg:"" help:"A CSS selector locating the target node(s)."`
}

func (f *FindCmd) Run() error {
	conf, err := loadConfig(f.Rules)
	if err != nil {
		slog.Error(fmt.Sprintf("%v", err))
		return err
	}
	opts, err := conf.FinderOptions()
	if err != nil {
		slog.Error(fmt.Sprintf("%v", err))
		return err
	}

	matcher, err := cascadia.Compile(f.Selector)
	if err != nil {
		return fmt.Errorf("invalid selector %q: %w", f.Selector, err)
	}

	ctx := log.ContextWithLogger(context.Background(), slog.With(slog.String("selector", f.Selector)))
	body, err := f.loadSource(ctx, conf)
	if err != nil {
		slog.Error(fmt.Sprintf("%v", err))
		return err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return fmt.Errorf("parsing document: %w", err)
	}

	matches := doc.FindMatcher(matcher).Nodes
	if len(matches) == 0 {
		return fmt.Errorf("no node matches %q", f.Selector)
	}
	slog.Debug(fmt.Sprintf("found %d matching nodes", len(matches)))

	if !f.All {
		selector, err := finder.Find(matches[0], opts...)
		if err != nil {
			return err
		}
		fmt.Println(selector)
		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("#", "Text", "Selector")
	for i, n := range matches {
		preview := utils.ShortenString(utils.CollapseWhitespace(goquery.NewDocumentFromNode(n).Text()), 40)
		selector, err := finder.Find(n, opts...)
		if err != nil {
			slog.Error(fmt.Sprintf("node %d: %v", i+1, err))
			continue
		}
		if err := table.Append([]string{strconv.Itoa(i + 1), preview, selector}); err != nil {
			return fmt.Errorf("appending table row %d: %w", i+1, err)
		}
	}
	return table.Render()
}

func (f *FindCmd) loadSource(ctx context.Context, conf *config.Config) (string, error) {
	if f.Source == "-" {
		bytes, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(bytes), nil
	}
	if _, err := os.Stat(f.Source); err == nil {
		bytes, err := os.ReadFile(f.Source)
		if err != nil {
			return "", fmt.Errorf("reading file %s: %w", f.Source, err)
		}
		return string(bytes), nil
	}
	fetcher := fetch.New(f.RenderJS, &conf.Fetcher)
	defer fetcher.Cancel()
	return fetcher.Fetch(ctx, f.Source, fetch.FetchOpts{})
}

type DumpConfigCmd struct {
	Rules string `short:"r" help:"The location of a YAML rules file."`
}

func (d *DumpConfigCmd) Run() error {
	conf, err := loadConfig(d.Rules)
	if err != nil {
		slog.Error(fmt.Sprintf("%v", err))
		return err
	}
	yamlData, err := yaml.Marshal(conf)
	if err != nil {
		slog.Error(fmt.Sprintf("error while marshalling. %v", err))
		return err
	}
	fmt.Println(string(yamlData))
	return nil
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.DefaultConfig()
	}
	return config.NewConfig(path)
}

func getVersion() string {
	if version != "dev" {
		return version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return version
}

func main() {
	cli := cli{
		Version: VersionFlag(getVersion()),
	}

	ctx := kong.Parse(&cli,
		kong.Vars{
			"version": string(cli.Version),
		})

	log.Debug = cli.Debug
	log.InitializeDefaultLogger()

	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
