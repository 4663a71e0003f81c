package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/kilianc/csx/internal/csx/outfile"
	"github.com/kilianc/csx/internal/csx/project"
	"github.com/kilianc/csx/internal/csx/scan"
	"github.com/kilianc/csx/internal/csx/translate"
)

func main() {
	flag.Usage = func() {
		_, _ = fmt.Fprintln(os.Stderr, "Usage: csx [flags] [paths...]")
		_, _ = fmt.Fprintln(os.Stderr, "")
		_, _ = fmt.Fprintln(os.Stderr, "Translates component templates into host-engine macro files.")
		_, _ = fmt.Fprintln(os.Stderr, "")
		_, _ = fmt.Fprintln(os.Stderr, "Paths behave like Go patterns:")
		_, _ = fmt.Fprintln(os.Stderr, "  - ./dir/...    recurse from that directory")
		_, _ = fmt.Fprintln(os.Stderr, "  - ./dir        only that directory (non-recursive)")
		_, _ = fmt.Fprintln(os.Stderr, "  - ./page.html  only that file")
		_, _ = fmt.Fprintln(os.Stderr, "")
		_, _ = fmt.Fprintln(os.Stderr, "With no paths, the project's input directory is translated.")
		flag.PrintDefaults()
	}
	configFlag := flag.String("config", "csx.yaml", "project file (defaults apply when missing)")
	outFlag := flag.String("o", "", "output directory (overrides the project file)")
	strictFlag := flag.Bool("strict", false, "fail on parse errors instead of copying files through")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, err := project.Load(*configFlag)
	if err != nil {
		fatal(log, err)
	}
	if *outFlag != "" {
		cfg.Out = *outFlag
	}

	cwd, err := os.Getwd()
	if err != nil {
		fatal(log, err)
	}

	patterns := flag.Args()
	if len(patterns) == 0 {
		patterns = []string{cfg.In + "/..."}
	}

	paths, err := collectTemplatePaths(cwd, patterns, cfg)
	if err != nil {
		fatal(log, err)
	}
	if len(paths) == 0 {
		return
	}

	sort.Strings(paths)

	// OutName flattens directories, so a recursive walk can map distinct
	// sources to one output file. The last writer wins; say so up front.
	for out, srcs := range collisions(paths, cfg.Out) {
		log.Warn("multiple templates write the same output, last writer wins",
			"out", out, "paths", strings.Join(srcs, ", "))
	}

	var allErr error
	for _, pth := range paths {
		if err := translateFile(log, cfg, pth, *strictFlag); err != nil {
			allErr = errors.Join(allErr, err)
		}
	}
	if allErr != nil {
		fatal(log, allErr)
	}
}

func fatal(log *slog.Logger, err error) {
	log.Error("csx failed", "error", err)
	os.Exit(1)
}

func translateFile(log *slog.Logger, cfg project.Config, pth string, strict bool) error {
	b, err := os.ReadFile(pth)
	if err != nil {
		return err
	}
	out, err := translate.File(pth, b)
	if err != nil {
		var perr *scan.Error
		if strict || !errors.As(err, &perr) {
			return err
		}
		// Fail open: files with no component syntax, or with tags the
		// grammar rejects, are copied through so the build keeps working.
		log.Warn("copying file through untranslated", "path", pth, "error", err)
		out = b
	}
	outPath := filepath.Join(cfg.Out, translate.OutName(pth))
	if err := outfile.Write(outPath, out); err != nil {
		return err
	}
	log.Info("translated", "path", pth, "out", outPath)
	return nil
}

// collisions groups input paths by the output file they write, keeping
// only outputs written by more than one input.
func collisions(paths []string, outDir string) map[string][]string {
	byOut := map[string][]string{}
	for _, pth := range paths {
		out := filepath.Join(outDir, translate.OutName(pth))
		byOut[out] = append(byOut[out], pth)
	}
	for out, srcs := range byOut {
		if len(srcs) < 2 {
			delete(byOut, out)
		}
	}
	return byOut
}

func collectTemplatePaths(cwd string, patterns []string, cfg project.Config) ([]string, error) {
	seen := map[string]bool{}
	var out []string

	outDir, err := filepath.Abs(cfg.Out)
	if err != nil {
		return nil, err
	}

	add := func(p string) error {
		abs := p
		if !filepath.IsAbs(abs) {
			abs = filepath.Join(cwd, abs)
		}
		abs, err := filepath.Abs(abs)
		if err != nil {
			return err
		}
		if !seen[abs] {
			seen[abs] = true
			out = append(out, abs)
		}
		return nil
	}

	for _, raw := range patterns {
		pat := strings.TrimSpace(raw)
		if pat == "" {
			continue
		}

		// Recursive pattern: <dir>/...
		if strings.HasSuffix(pat, "/...") || pat == "..." {
			base := strings.TrimSuffix(pat, "...")
			base = strings.TrimSuffix(base, "/")
			if base == "" {
				base = "."
			}
			dir := base
			if !filepath.IsAbs(dir) {
				dir = filepath.Join(cwd, dir)
			}
			dir, err := filepath.Abs(dir)
			if err != nil {
				return nil, err
			}
			if err := walkTemplates(dir, outDir, cfg, add); err != nil {
				return nil, err
			}
			continue
		}

		// Non-recursive: a template file or a directory.
		target := pat
		if !filepath.IsAbs(target) {
			target = filepath.Join(cwd, target)
		}
		target, err := filepath.Abs(target)
		if err != nil {
			return nil, err
		}
		st, err := os.Stat(target)
		if err != nil {
			return nil, err
		}
		if st.IsDir() {
			entries, err := os.ReadDir(target)
			if err != nil {
				return nil, err
			}
			for _, e := range entries {
				if e.IsDir() {
					continue
				}
				if cfg.Translates(e.Name()) {
					if err := add(filepath.Join(target, e.Name())); err != nil {
						return nil, err
					}
				}
			}
			continue
		}
		if !cfg.Translates(target) {
			return nil, fmt.Errorf("csx: not a template file: %s", target)
		}
		if err := add(target); err != nil {
			return nil, err
		}
	}

	return out, nil
}

func walkTemplates(root, outDir string, cfg project.Config, add func(string) error) error {
	return filepath.WalkDir(root, func(path string, de fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if de.IsDir() {
			name := de.Name()
			if name == "vendor" || name == "node_modules" || (strings.HasPrefix(name, ".") && path != root) {
				return filepath.SkipDir
			}
			if cfg.Excluded(name) || path == outDir {
				return filepath.SkipDir
			}
			return nil
		}
		if cfg.Translates(de.Name()) {
			return add(path)
		}
		return nil
	})
}
