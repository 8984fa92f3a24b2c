package mode

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rofi-go/rofi/executor"
)

// desktopEntry is the subset of an XDG .desktop file rofi's "drun" mode
// cares about.
type desktopEntry struct {
	name    string
	exec    string
	noField bool // Entry lacked a Name= key; use the file's basename.
}

// NewDrun builds the "drun" mode: application entries parsed from XDG
// .desktop files. Accepting an entry launches its Exec= line with field
// codes stripped.
func NewDrun(exec *executor.Executor) Mode {
	return newStaticMode("drun", drunFetch, func(input string, e staticEntry) Result {
		cmd := e.Completion
		if cmd == "" {
			cmd = input
		}
		if err := exec.Launch(cmd); err != nil {
			return Result{Kind: ResultExit}
		}
		return Result{Kind: ResultOk}
	})
}

func drunFetch(ctx context.Context) ([]staticEntry, error) {
	dirs := xdgApplicationDirs()
	seen := make(map[string]bool)
	var entries []staticEntry
	for _, dir := range dirs {
		matches, _ := filepath.Glob(filepath.Join(dir, "*.desktop"))
		for _, path := range matches {
			base := filepath.Base(path)
			if seen[base] {
				continue
			}
			de, ok := parseDesktopFile(path)
			if !ok {
				continue
			}
			seen[base] = true
			entries = append(entries, staticEntry{Display: de.name, Completion: de.exec})
		}
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Display < entries[j].Display })
	return entries, nil
}

func xdgApplicationDirs() []string {
	var dirs []string
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		dirs = append(dirs, filepath.Join(dataHome, "applications"))
	} else if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".local", "share", "applications"))
	}
	dataDirs := os.Getenv("XDG_DATA_DIRS")
	if dataDirs == "" {
		dataDirs = "/usr/local/share:/usr/share"
	}
	for _, d := range strings.Split(dataDirs, ":") {
		if d == "" {
			continue
		}
		dirs = append(dirs, filepath.Join(d, "applications"))
	}
	return dirs
}

// parseDesktopFile reads the [Desktop Entry] section's Name, Exec and
// NoDisplay/Hidden keys. Entries marked NoDisplay or Hidden are skipped.
func parseDesktopFile(path string) (desktopEntry, bool) {
	f, err := os.Open(path)
	if err != nil {
		return desktopEntry{}, false
	}
	defer f.Close()

	var de desktopEntry
	inSection := false
	hidden := false
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.HasPrefix(line, "[") {
			inSection = line == "[Desktop Entry]"
			continue
		}
		if !inSection {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key, value = strings.TrimSpace(key), strings.TrimSpace(value)
		switch key {
		case "Name":
			de.name = value
		case "Exec":
			de.exec = stripFieldCodes(value)
		case "NoDisplay", "Hidden":
			if strings.EqualFold(value, "true") {
				hidden = true
			}
		}
	}
	if hidden || de.exec == "" {
		return desktopEntry{}, false
	}
	if de.name == "" {
		de.name = strings.TrimSuffix(filepath.Base(path), ".desktop")
		de.noField = true
	}
	return de, true
}

// stripFieldCodes removes the Exec= field codes (%f, %F, %u, %U, %i, %c, %k)
// that desktop-entry-spec defines, which rofi's launcher does not need.
func stripFieldCodes(exec string) string {
	var b strings.Builder
	for i := 0; i < len(exec); i++ {
		if exec[i] == '%' && i+1 < len(exec) {
			switch exec[i+1] {
			case 'f', 'F', 'u', 'U', 'i', 'c', 'k', '%':
				i++
				continue
			}
		}
		b.WriteByte(exec[i])
	}
	return strings.TrimSpace(b.String())
}
