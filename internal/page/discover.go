package page

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/navtree/internal/frontmatter"
	"git.home.luguber.info/inful/navtree/internal/logfields"
	"git.home.luguber.info/inful/navtree/internal/markdown"
	"golang.org/x/text/unicode/norm"
)

// Discover walks a content directory and returns one descriptor per Markdown
// file. README.md and index.md (any case) map to their directory URL ("/a/");
// every other file maps to "/a/name.html". Two files mapping to the same URL
// path are an error. Hidden entries and node_modules are skipped.
func Discover(root string) ([]Descriptor, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("content directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("content directory %s is not a directory", root)
	}

	var pages []Descriptor
	seen := map[string]string{}
	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if p != root && skipEntry(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(d.Name()), ".md") {
			return nil
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		desc, err := readPage(p, rel)
		if err != nil {
			return err
		}
		if prev, ok := seen[desc.Path]; ok {
			return fmt.Errorf("%s and %s both map to page path %s", prev, desc.SourceFile, desc.Path)
		}
		seen[desc.Path] = desc.SourceFile
		slog.Debug("Discovered page", logfields.Page(desc.Path), logfields.Path(rel))
		pages = append(pages, desc)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return pages, nil
}

func readPage(absPath, rel string) (Descriptor, error) {
	data, err := os.ReadFile(absPath)
	if err != nil {
		return Descriptor{}, fmt.Errorf("read %s: %w", rel, err)
	}
	doc, err := frontmatter.Parse(data)
	if err != nil {
		return Descriptor{}, fmt.Errorf("%s: %w", rel, err)
	}

	urlPath, isIndex := URLPath(rel)
	title := markdown.Title(doc.Body)
	if title == "" {
		title = fallbackTitle(urlPath, rel, isIndex)
	}

	return Descriptor{
		Path:        urlPath,
		Title:       title,
		Frontmatter: doc.Fields,
		Content:     string(doc.Body),
		SourceFile:  filepath.ToSlash(rel),
	}, nil
}

// URLPath maps a content-relative Markdown file to its site URL path. File
// names are NFC-normalized so that decomposed names (as reported by some
// filesystems) produce the same keys as composed ones.
func URLPath(rel string) (urlPath string, isIndex bool) {
	rel = norm.NFC.String(filepath.ToSlash(rel))
	dir, file := path.Split(rel)
	stem := strings.TrimSuffix(file, path.Ext(file))

	if strings.EqualFold(stem, "readme") || strings.EqualFold(stem, "index") {
		return "/" + dir, true
	}
	return "/" + dir + stem + ".html", false
}

func fallbackTitle(urlPath, rel string, isIndex bool) string {
	if !isIndex {
		return strings.TrimSuffix(path.Base(filepath.ToSlash(rel)), path.Ext(rel))
	}
	if urlPath == "/" {
		return ""
	}
	return path.Base(strings.TrimSuffix(urlPath, "/"))
}

func skipEntry(name string) bool {
	return strings.HasPrefix(name, ".") || name == "node_modules"
}
