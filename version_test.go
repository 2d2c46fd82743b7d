package wheelmk

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"git.fractalqb.de/fractalqb/testerr"
	"git.fractalqb.de/fractalqb/wheelmk/wheelkore"
)

func constVersion(v string) VersionSource {
	return func(context.Context) (string, error) { return v, nil }
}

func failVersion(msg string) VersionSource {
	return func(context.Context) (string, error) { return "", errors.New(msg) }
}

func TestResolveVersion_supplied(t *testing.T) {
	tr := NewTestTrace(t)
	v := ResolveVersion(context.Background(), tr, nil, "2.0.1",
		func(context.Context) (string, error) {
			t.Error("source called for real version")
			return "", nil
		},
	)
	if v != "2.0.1" {
		t.Errorf("version changed to '%s'", v)
	}
}

func TestResolveVersion_placeholder(t *testing.T) {
	for _, ph := range []string{"", "standard", "editable"} {
		t.Run(ph, func(t *testing.T) {
			tr := NewTestTrace(t)
			v := ResolveVersion(context.Background(), tr, nil, ph,
				failVersion("no git"),
				constVersion("1.2.3"),
				constVersion("9.9.9"),
			)
			if v != "1.2.3" {
				t.Errorf("unexpected version '%s'", v)
			}
		})
	}
}

func TestResolveVersion_exhausted(t *testing.T) {
	tr := NewTestTrace(t)
	done := tr.Start(wheelkore.StageVersion)
	v := ResolveVersion(context.Background(), tr, nil, "standard",
		failVersion("no git"),
		failVersion("no PKG-INFO"),
	)
	done()
	if v != "standard" {
		t.Errorf("unexpected version '%s'", v)
	}
	if !tr.Degraded(wheelkore.StageVersion) {
		t.Error("version stage not degraded")
	}
}

func TestVersionConfig_IsPlaceholder(t *testing.T) {
	vc := &VersionConfig{Placeholders: []string{"dev"}}
	if !vc.IsPlaceholder("dev") || vc.IsPlaceholder("standard") {
		t.Error("custom placeholders not used")
	}
	if !vc.IsPlaceholder("") {
		t.Error("empty version is no placeholder")
	}
}

func TestFirstOf(t *testing.T) {
	ctx := context.Background()
	_, err := FirstOf[string](ctx)
	if !errors.Is(err, ErrNoSources) {
		t.Errorf("expected no sources, got %v", err)
	}
	e1, e2 := errors.New("e1"), errors.New("e2")
	_, err = FirstOf(ctx,
		func(context.Context) (int, error) { return 0, e1 },
		func(context.Context) (int, error) { return 0, e2 },
	)
	if !errors.Is(err, e1) || !errors.Is(err, e2) {
		t.Errorf("errors not joined: %v", err)
	}
}

func TestStripVersionPrefix(t *testing.T) {
	for in, out := range map[string]string{
		"v1.2.3":         "1.2.3",
		"V0.1":           "0.1",
		"1.0":            "1.0",
		"v":              "v",
		"v1.0-3-gabcdef": "1.0-3-gabcdef",
	} {
		if s := StripVersionPrefix(in); s != out {
			t.Errorf("%s: got '%s', want '%s'", in, s, out)
		}
	}
}

func TestGitDescribe(t *testing.T) {
	git := fakeTool(t, "git", `[ "$1" = describe ] || exit 2
echo v1.2.3
`)
	tr := NewTestTrace(t)
	v := testerr.Shall1(GitDescribe(tr, nil, git, t.TempDir())(context.Background())).BeNil(t)
	if v != "1.2.3" {
		t.Errorf("unexpected version '%s'", v)
	}
}

func TestGitDescribe_fail(t *testing.T) {
	git := fakeTool(t, "git", "echo 'fatal: not a git repository' >&2\nexit 128\n")
	tr := NewTestTrace(t)
	_, err := GitDescribe(tr, nil, git, t.TempDir())(context.Background())
	if err == nil {
		t.Error("no error from failing git")
	}
}

func TestPkgInfoVersion(t *testing.T) {
	dir := t.TempDir()
	pkgInfo := filepath.Join(dir, "PKG-INFO")
	testerr.Shall(os.WriteFile(pkgInfo, []byte(
		"Metadata-Version: 2.1\nName: mcp-liner\nVersion: 9.9.9\nSummary: x\n",
	), 0o644)).BeNil(t)
	v := testerr.Shall1(PkgInfoVersion(pkgInfo)(context.Background())).BeNil(t)
	if v != "9.9.9" {
		t.Errorf("unexpected version '%s'", v)
	}

	testerr.Shall(os.WriteFile(pkgInfo, []byte("Name: mcp-liner\n"), 0o644)).BeNil(t)
	if _, err := PkgInfoVersion(pkgInfo)(context.Background()); err == nil {
		t.Error("version from PKG-INFO without Version field")
	}
	if _, err := PkgInfoVersion(filepath.Join(dir, "nope"))(context.Background()); err == nil {
		t.Error("version from missing PKG-INFO")
	}
}

func TestVersionConfig_Sources_pkgInfo(t *testing.T) {
	dir := t.TempDir()
	testerr.Shall(os.WriteFile(filepath.Join(dir, "PKG-INFO"), []byte("Version: 3.1.4\n"), 0o644)).BeNil(t)
	tr := NewTestTrace(t)
	vc := &VersionConfig{Git: "wheelmk-no-such-git"}
	v := ResolveVersion(context.Background(), tr, vc, "standard", vc.Sources(tr, nil, dir)...)
	if v != "3.1.4" {
		t.Errorf("unexpected version '%s'", v)
	}
}
