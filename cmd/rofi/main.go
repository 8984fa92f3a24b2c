// Command rofi is the CLI entrypoint wiring config, the mode registry, the
// executor, history, the headless display backend, and the input loop into
// one runnable launcher.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	flags "github.com/jessevdk/go-flags"

	"github.com/rofi-go/rofi/config"
	"github.com/rofi-go/rofi/display"
	"github.com/rofi-go/rofi/display/simscreen"
	"github.com/rofi-go/rofi/executor"
	"github.com/rofi-go/rofi/format"
	"github.com/rofi-go/rofi/history"
	"github.com/rofi-go/rofi/input"
	"github.com/rofi-go/rofi/keybind"
	"github.com/rofi-go/rofi/logging"
	"github.com/rofi-go/rofi/mode"
	"github.com/rofi-go/rofi/view"
	"github.com/rofi-go/rofi/worker"
)

// options is the subset of the CLI surface the core depends on;
// everything else (compositor geometry, seat/serial, PNG dumping)
// belongs to the Display backend this repo does not implement.
type options struct {
	Show          string `long:"show" description:"open this mode on startup"`
	Modi          string `long:"modi" description:"comma-separated list of enabled modes"`
	Filter        string `long:"filter" description:"start with pre-filled input"`
	Select        string `long:"select" description:"start with this entry pre-selected"`
	CaseSensitive bool   `long:"case-sensitive"`
	Sort          bool   `long:"sort"`
	SortingMethod string `long:"sorting-method" choice:"normal" choice:"fzf" default:"normal"`
	Matching      string `long:"matching" choice:"normal" choice:"regex" choice:"glob" choice:"fuzzy" choice:"prefix" default:"normal"`
	Format        string `long:"format" default:"s"`
	ConfigPath    string `long:"config" description:"path to config.yml"`
}

func main() {
	os.Exit(run())
}

func run() int {
	var opts options
	parser := flags.NewParser(&opts, flags.Default)
	if _, err := parser.Parse(); err != nil {
		if flags.WroteHelp(err) {
			return 0
		}
		return 1
	}

	log := &logging.Buffer{}

	cfgPath := opts.ConfigPath
	if cfgPath == "" {
		cfgPath = config.DefaultPath()
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.WarnErr(err, "loading config")
	}
	applyFlagOverrides(&cfg, opts)

	if !log.Empty() {
		for _, ev := range log.Events() {
			fmt.Fprintln(os.Stderr, ev.Error())
		}
	}

	pf, err := executor.Acquire(cfg.PidFile)
	if err != nil {
		logging.Die("single instance check", err)
	}
	defer pf.Release()

	exec := executor.New()
	registry, names := buildRegistry(cfg, exec, log)

	showName := opts.Show
	if showName == "" {
		if len(names) == 0 {
			logging.Die("startup", fmt.Errorf("no modes enabled"))
		}
		showName = names[0]
	}
	m, ok := registry[showName]
	if !ok {
		logging.Die("startup", fmt.Errorf("unknown mode %q", showName))
	}
	if err := m.Init(context.Background()); err != nil {
		log.WarnErr(err, "mode init")
	}

	hist, err := openHistory(cfg, showName)
	if err != nil {
		log.WarnErr(err, "opening history")
	}

	bindings, bindErrs := keybind.NewTable(keybind.Default())
	for _, e := range bindErrs {
		log.WarnErr(e, "key binding")
	}

	pool := worker.New(cfg.Threads)
	scr := simscreen.New(80, 24)
	loop := input.NewLoop(scr, bindings, log)

	var result format.Result
	var retv view.MenuReturn
	vs := view.Create(m, cfg, pool, log, hist, opts.Filter, view.FlagNormal, func(v *view.ViewState) {
		retv = v.Retv
		if v.Retv != view.MenuOk {
			return
		}
		idx := -1
		if v.Selected() >= 0 {
			idx = int(v.Filtered().LineMap[v.Selected()])
		}
		selected := v.Input
		if idx >= 0 {
			selected = m.Completion(idx)
		}
		result = format.Result{Selected: selected, Index: idx, Filter: v.Input}
	})
	if opts.Select != "" {
		vs.Refilter()
		vs.SelectByDisplay(opts.Select)
	}
	loop.Stack.Push(vs)

	go feedStdinAsKeys(scr)

	if err := loop.Run(context.Background()); err != nil {
		logging.Die("input loop", err)
	}
	m.Destroy()

	if retv == view.MenuOk {
		fmt.Println(format.Format(opts.Format, result))
	}
	return retv.ExitCode()
}

// applyFlagOverrides layers CLI flags over the loaded config, last-wins:
// CLI flags override file values.
func applyFlagOverrides(cfg *config.Config, opts options) {
	if opts.CaseSensitive {
		cfg.CaseSensitive = true
	}
	if opts.Sort {
		cfg.Sort = true
	}
	if opts.SortingMethod != "" {
		cfg.SortingMethod = config.SortingMethod(opts.SortingMethod)
	}
	if opts.Matching != "" {
		cfg.Matching = config.MatchingMethod(opts.Matching)
	}
	if opts.Modi != "" {
		cfg.CombiModes = strings.Split(opts.Modi, ",")
	}
}

// buildRegistry constructs every built-in mode plus a combi mode over
// cfg.CombiModes, returning the registry and the enabled mode names in
// the order modi were requested.
func buildRegistry(cfg config.Config, exec *executor.Executor, log *logging.Buffer) (map[string]mode.Mode, []string) {
	registry := map[string]mode.Mode{
		"run":    mode.NewRun(exec),
		"drun":   mode.NewDrun(exec),
		"ssh":    mode.NewSSH(exec, ""),
		"window": mode.NewWindow(nil, exec),
	}

	names := cfg.CombiModes
	if len(names) == 0 {
		names = []string{"drun", "run", "window", "ssh"}
	}

	if len(names) > 1 {
		combi, err := mode.BuildCombi("combi", names, registry, log)
		if err != nil {
			log.WarnErr(err, "building combi mode")
		} else {
			registry["combi"] = combi
		}
		return registry, append([]string{"combi"}, names...)
	}
	return registry, names
}

// openHistory opens the per-mode MRU file under $XDG_CACHE_HOME/rofi.
func openHistory(cfg config.Config, modeName string) (*history.History, error) {
	if cfg.DisableHistory {
		return nil, nil
	}
	path := config.CacheDir() + "/" + modeName
	return history.Open(path, cfg.HistorySize, cfg.IgnoredPrefixes)
}

// feedStdinAsKeys is the headless CLI's input source: each rune read from
// stdin becomes a KeyRune event, Enter/Escape become their named keys. A
// real Display backend would instead deliver compositor input events —
// out of scope here per the non-goals.
func feedStdinAsKeys(scr *simscreen.Screen) {
	defer scr.Close()
	buf := make([]byte, 1)
	for {
		n, err := os.Stdin.Read(buf)
		if n == 0 || err != nil {
			return
		}
		switch buf[0] {
		case '\n', '\r':
			scr.InjectKey(0, int16(keybind.KeyEnter), 0)
		case 27:
			scr.InjectKey(0, int16(keybind.KeyEsc), 0)
		case 127, 8:
			scr.InjectKey(0, int16(keybind.KeyBackspace), 0)
		default:
			scr.InjectKey(0, int16(keybind.KeyRune), rune(buf[0]))
		}
	}
}

var _ display.Display = (*simscreen.Screen)(nil)
