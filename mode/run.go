package mode

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	"github.com/rofi-go/rofi/executor"
)

// NewRun builds the "run" mode: every executable file found on $PATH.
// Accepting an entry launches it through the shared executor.
func NewRun(exec *executor.Executor) Mode {
	return newStaticMode("run", runFetch, func(input string, e staticEntry) Result {
		cmd := e.Display
		if cmd == "" {
			cmd = input
		}
		if err := exec.Launch(cmd); err != nil {
			return Result{Kind: ResultExit}
		}
		return Result{Kind: ResultOk}
	})
}

func runFetch(ctx context.Context) ([]staticEntry, error) {
	seen := make(map[string]bool)
	var entries []staticEntry
	for _, dir := range filepath.SplitList(os.Getenv("PATH")) {
		if dir == "" {
			continue
		}
		infos, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, info := range infos {
			if info.IsDir() || seen[info.Name()] {
				continue
			}
			fi, err := info.Info()
			if err != nil || fi.Mode()&0111 == 0 {
				continue
			}
			seen[info.Name()] = true
			entries = append(entries, staticEntry{Display: info.Name()})
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Display < entries[j].Display })
	return entries, nil
}
