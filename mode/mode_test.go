package mode

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rofi-go/rofi/config"
	"github.com/rofi-go/rofi/logging"
	"github.com/rofi-go/rofi/match"
	"github.com/stretchr/testify/require"
)

func TestParseSSHConfigHosts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config")
	content := "Host foo\n  HostName foo.example.com\nHost bar baz\nHost *.internal\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	hosts := parseSSHConfigHosts(path)
	require.Equal(t, []string{"foo", "bar", "baz"}, hosts)
}

func TestParseDesktopFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.desktop")
	content := "[Desktop Entry]\nName=My App\nExec=myapp %U\nType=Application\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	de, ok := parseDesktopFile(path)
	require.True(t, ok)
	require.Equal(t, "My App", de.name)
	require.Equal(t, "myapp", de.exec)
}

func TestParseDesktopFileSkipsHidden(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.desktop")
	content := "[Desktop Entry]\nName=Hidden App\nExec=hiddenapp\nNoDisplay=true\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	_, ok := parseDesktopFile(path)
	require.False(t, ok)
}

func TestScriptParseOutputControlLines(t *testing.T) {
	s := NewScript("test", "true", nil)
	entries := s.parseOutput([]string{
		"\x00prompt\x1fpick one",
		"\x00urgent\x1f0",
		"\x00active\x1f1",
		"Download complete",
		"plain text",
	})
	require.Len(t, entries, 2)
	require.Equal(t, "pick one", s.Prompt())
	require.Equal(t, "Download complete", entries[0].Display)
	require.True(t, entries[0].State.Has(StateUrgent))
	require.Equal(t, "plain text", entries[1].Display)
	require.True(t, entries[1].State.Has(StateActive))
}

func TestScriptParseOutputDelimSplitsHiddenData(t *testing.T) {
	s := NewScript("test", "true", nil)
	s.delim = "\x1f"
	entries := s.parseOutput([]string{"Firefox\x1ffirefox --new-window"})
	s.entries = entries
	require.Len(t, entries, 1)
	require.Equal(t, "Firefox", entries[0].Display)
	require.Equal(t, "firefox --new-window", s.Completion(0))
}

func TestScriptParseOutputNoCustomDisablesFreeText(t *testing.T) {
	s := NewScript("test", "true", nil)
	s.parseOutput([]string{"\x00no-custom\x1ftrue"})
	require.True(t, s.NoCustom())
	res := s.Result(EventCustomInput, "anything", -1)
	require.Equal(t, ResultExit, res.Kind)
}

func TestCombiMergesChildrenAndPrefixesLabels(t *testing.T) {
	log := &logging.Buffer{}
	a := newStaticMode("a", func(ctx context.Context) ([]staticEntry, error) {
		return []staticEntry{{Display: "one"}, {Display: "two"}}, nil
	}, func(input string, e staticEntry) Result { return Result{Kind: ResultOk} })
	b := newStaticMode("b", func(ctx context.Context) ([]staticEntry, error) {
		return []staticEntry{{Display: "three"}}, nil
	}, func(input string, e staticEntry) Result { return Result{Kind: ResultOk} })

	c := NewCombi([]Mode{a, b}, log)
	require.NoError(t, c.Init(context.Background()))
	require.Equal(t, 3, c.NumEntries())

	text, _ := c.Display(0, true)
	require.Equal(t, "[a] one", *text)
	text, _ = c.Display(2, true)
	require.Equal(t, "[b] three", *text)
}

func TestCombiBangRouting(t *testing.T) {
	log := &logging.Buffer{}
	a := newStaticMode("run", nil, nil)
	b := newStaticMode("ssh", nil, nil)
	c := NewCombi([]Mode{a, b}, log)

	rest := c.PreprocessInput("!ssh host1")
	require.Equal(t, "host1", rest)

	rest = c.PreprocessInput("no bang here")
	require.Equal(t, "no bang here", rest)
}

func TestCombiRestrictsMatchingToActiveSwitcher(t *testing.T) {
	log := &logging.Buffer{}
	run := newStaticMode("run", func(ctx context.Context) ([]staticEntry, error) {
		return []staticEntry{{Display: "firefox"}}, nil
	}, func(input string, e staticEntry) Result { return Result{Kind: ResultOk} })
	ssh := newStaticMode("ssh", func(ctx context.Context) ([]staticEntry, error) {
		return []staticEntry{{Display: "firehost"}}, nil
	}, func(input string, e staticEntry) Result { return Result{Kind: ResultOk} })

	c := NewCombi([]Mode{run, ssh}, log)
	require.NoError(t, c.Init(context.Background()))

	rest := c.PreprocessInput("!ssh fire")
	require.Equal(t, "fire", rest)

	tokens := match.Tokenize(rest, config.Default())
	var matched []string
	for i := 0; i < c.NumEntries(); i++ {
		if c.TokenMatch(tokens, i) {
			text, _ := c.Display(i, true)
			matched = append(matched, *text)
		}
	}
	require.Equal(t, []string{"[ssh] firehost"}, matched)

	c.PreprocessInput("fire")
	matched = nil
	for i := 0; i < c.NumEntries(); i++ {
		if c.TokenMatch(tokens, i) {
			text, _ := c.Display(i, true)
			matched = append(matched, *text)
		}
	}
	require.ElementsMatch(t, []string{"[run] firefox", "[ssh] firehost"}, matched)
}

func TestCombiCompletionPrependsActivePrefix(t *testing.T) {
	log := &logging.Buffer{}
	run := newStaticMode("run", func(ctx context.Context) ([]staticEntry, error) {
		return []staticEntry{{Display: "firefox"}}, nil
	}, func(input string, e staticEntry) Result { return Result{Kind: ResultOk} })
	ssh := newStaticMode("ssh", func(ctx context.Context) ([]staticEntry, error) {
		return []staticEntry{{Display: "firehost"}}, nil
	}, func(input string, e staticEntry) Result { return Result{Kind: ResultOk} })

	c := NewCombi([]Mode{run, ssh}, log)
	require.NoError(t, c.Init(context.Background()))

	c.PreprocessInput("!ssh fire")
	require.Equal(t, "!ssh firehost", c.Completion(1))

	c.PreprocessInput("fire")
	require.Equal(t, "firefox", c.Completion(0))
}

func TestBuildCombiRejectsSelfReference(t *testing.T) {
	log := &logging.Buffer{}
	registry := map[string]Mode{
		"run": newStaticMode("run", nil, nil),
	}
	c, err := BuildCombi("combi", []string{"run", "combi"}, registry, log)
	require.NoError(t, err)
	require.Len(t, c.children, 1)
}
