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

// NewSSH builds the "ssh" mode: host aliases parsed from ~/.ssh/config
// "Host" lines. Accepting an entry launches the configured ssh client
// against that host.
func NewSSH(exec *executor.Executor, sshClient string) Mode {
	if sshClient == "" {
		sshClient = "ssh"
	}
	return newStaticMode("ssh", sshHostsFetch, func(input string, e staticEntry) Result {
		host := e.Display
		if host == "" {
			host = input
		}
		if err := exec.Launch(sshClient + " " + host); err != nil {
			return Result{Kind: ResultExit}
		}
		return Result{Kind: ResultOk}
	})
}

func sshHostsFetch(ctx context.Context) ([]staticEntry, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, nil
	}
	seen := make(map[string]bool)
	var entries []staticEntry
	for _, host := range parseSSHConfigHosts(filepath.Join(home, ".ssh", "config")) {
		if seen[host] {
			continue
		}
		seen[host] = true
		entries = append(entries, staticEntry{Display: host})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Display < entries[j].Display })
	return entries, nil
}

// parseSSHConfigHosts scans an OpenSSH config file for "Host" directives,
// expanding space-separated alias lists and skipping wildcard patterns.
func parseSSHConfigHosts(path string) []string {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	var hosts []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 || !strings.EqualFold(fields[0], "Host") {
			continue
		}
		for _, alias := range fields[1:] {
			if strings.ContainsAny(alias, "*?") {
				continue
			}
			hosts = append(hosts, alias)
		}
	}
	return hosts
}
