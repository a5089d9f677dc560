package commands

import (
	"bytes"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"git.home.luguber.info/inful/navtree/internal/errors"
	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/require"
)

// site writes a small two-locale content tree and a config file pointing at it.
func site(t *testing.T, extraConfig string) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"docs/README.md":      "---\ntitle: Home\n---\n",
		"docs/a/README.md":    "---\ntitle: A\ndirection: left\n---\n",
		"docs/a/c.md":         "# C\n\nSome text.\n",
		"docs/b/index.md":     "---\ntitle: B\ndirection: right\n---\n",
		"docs/ru/README.md":   "---\ntitle: Главная\n---\n",
		"docs/ru/a/README.md": "---\ntitle: А\ndirection: left\n---\n",
		"docs/ru/b/README.md": "---\ntitle: Б\ndirection: right\n---\nТекст.\n",
		"docs/.vuepress/x.md": "# hidden\n",
		"navtree.yaml":        "locales:\n  en: /\n  ru: /ru/\ncontent_dir: docs\noutput_dir: docs/.vuepress/dist\n" + extraConfig,
	}
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	}
	return dir
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var cli CLI
	parser, err := kong.New(&cli,
		kong.Name("navtree"),
		kong.Vars{"version": "test"},
		kong.Exit(func(int) { t.Fatal("unexpected exit") }),
	)
	require.NoError(t, err)
	kctx, err := parser.Parse(args)
	require.NoError(t, err)

	var out bytes.Buffer
	g := &Global{Logger: slog.New(slog.NewTextHandler(io.Discard, nil)), Out: &out}
	err = kctx.Run(g, &cli)
	return out.String(), err
}

func TestBuild_WritesScriptAndTrees(t *testing.T) {
	dir := site(t, "tree:\n  dump: true\n")
	metricsFile := filepath.Join(dir, "metrics", "navtree.prom")

	out, err := runCLI(t, "--config", filepath.Join(dir, "navtree.yaml"), "--metrics-file", metricsFile, "build", "--production")
	require.NoError(t, err)
	require.Contains(t, out, "Build completed")

	script, err := os.ReadFile(filepath.Join(dir, "docs", ".vuepress", "dist", "generate-tree-enhance-app.js"))
	require.NoError(t, err)
	require.Contains(t, string(script), `siteData.themeConfig.locales["/"].sidebar = `)
	require.Contains(t, string(script), `siteData.themeConfig.locales["/ru/"].sidebar = `)
	require.NotContains(t, string(script), "hidden")

	tree, err := os.ReadFile(filepath.Join(dir, "docs", ".vuepress", "trees", "tree-en.json"))
	require.NoError(t, err)
	require.Contains(t, string(tree), `"link":"https://tlroadmap.io/a/c.html"`)

	_, err = os.Stat(filepath.Join(dir, "docs", ".vuepress", "trees", "tree-ru.json"))
	require.NoError(t, err)

	prom, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	require.Contains(t, string(prom), `navtree_build_outcomes_total{outcome="success"} 1`)
}

func TestBuild_MissingRootPageExitCode(t *testing.T) {
	dir := site(t, "")
	cfgPath := filepath.Join(dir, "navtree.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("locales:\n  en: /\n  es: /es/\ncontent_dir: docs\n"), 0o600))

	_, err := runCLI(t, "--config", cfgPath, "build")
	require.Error(t, err)
	require.Equal(t, 7, errors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err))
	require.Contains(t, err.Error(), "/es/README.md")
}

func TestBuild_OutputOverride(t *testing.T) {
	dir := site(t, "")
	outDir := filepath.Join(dir, "public")

	_, err := runCLI(t, "--config", filepath.Join(dir, "navtree.yaml"), "build", "-o", outDir)
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(outDir, "generate-tree-enhance-app.js"))
	require.NoError(t, err)
}

func TestTree_PrintsOutline(t *testing.T) {
	dir := site(t, "")

	out, err := runCLI(t, "--config", filepath.Join(dir, "navtree.yaml"), "tree", "en")
	require.NoError(t, err)

	want := strings.Join([]string{
		"# en (/)",
		"Home",
		"  A [a] (left)",
		"    C [c] -> /a/c.html",
		"  B [b] (right)",
		"",
	}, "\n")
	require.Equal(t, want, out)
}

func TestTree_JSONAllLocales(t *testing.T) {
	dir := site(t, "")

	out, err := runCLI(t, "--config", filepath.Join(dir, "navtree.yaml"), "tree", "--json")
	require.NoError(t, err)
	require.Contains(t, out, `"title": "Home"`)
	require.Contains(t, out, `"path": "/ru/b/"`)
}

func TestTree_UnknownLocale(t *testing.T) {
	dir := site(t, "")

	_, err := runCLI(t, "--config", filepath.Join(dir, "navtree.yaml"), "tree", "de")
	require.True(t, errors.IsCategory(err, errors.CategoryValidation))
}

func TestInit_WritesConfig(t *testing.T) {
	dir := t.TempDir()

	out, err := runCLI(t, "init", "-o", dir)
	require.NoError(t, err)
	require.Contains(t, out, filepath.Join(dir, "navtree.yaml"))

	_, err = runCLI(t, "init", "-o", dir)
	require.Error(t, err)

	_, err = runCLI(t, "init", "-o", dir, "--force")
	require.NoError(t, err)
}

func TestWatch_RejectsManifest(t *testing.T) {
	dir := site(t, "pages: pages.json\n")

	_, err := runCLI(t, "--config", filepath.Join(dir, "navtree.yaml"), "watch")
	require.True(t, errors.IsCategory(err, errors.CategoryValidation))
}
