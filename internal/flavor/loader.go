package flavor

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// LoadError reports that one TOML file failed to parse or violated the
// schema. The previous good flavor for that layer, if any, is left active
// by the caller; this is the FlavorLoad taxonomy entry from SPEC_FULL.md.
type LoadError struct {
	Path   string
	Reason string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("flavor file %s: %s", e.Path, e.Reason)
}

// LoadFile parses a single flavor document (not a fragment directory) into
// a Flavor. Exactly one [flavor] header is expected.
func LoadFile(path string) (Flavor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Flavor{}, &LoadError{Path: path, Reason: err.Error()}
	}
	frag, err := ParseFragment(data)
	if err != nil {
		return Flavor{}, &LoadError{Path: path, Reason: err.Error()}
	}
	if frag.Header == nil {
		return Flavor{}, &LoadError{Path: path, Reason: "missing [flavor] header"}
	}
	return buildFlavor(frag.Header, []Fragment{frag}, path)
}

// LoadDirectory loads a fragment directory: every "NN-*.toml" file beneath
// dir, merged in lexicographic filename order. Exactly one fragment must
// supply the [flavor] header; a second header at the same layer is a
// conflicting-name error per SPEC_FULL.md §5.
func LoadDirectory(dir string) (Flavor, error) {
	paths, err := matchFragmentFiles(dir)
	if err != nil {
		return Flavor{}, &LoadError{Path: dir, Reason: err.Error()}
	}
	if len(paths) == 0 {
		return Flavor{}, &LoadError{Path: dir, Reason: "no fragment files found"}
	}

	var header *tomlFlavorHeader
	headerPath := ""
	var frags []Fragment

	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return Flavor{}, &LoadError{Path: p, Reason: err.Error()}
		}
		frag, err := ParseFragment(data)
		if err != nil {
			return Flavor{}, &LoadError{Path: p, Reason: err.Error()}
		}
		if frag.Header != nil {
			if header != nil && !strings.EqualFold(header.Name, frag.Header.Name) {
				return Flavor{}, &LoadError{
					Path:   p,
					Reason: fmt.Sprintf("conflicting flavor name %q; layer already named %q in %s", frag.Header.Name, header.Name, headerPath),
				}
			}
			if header == nil {
				header = frag.Header
				headerPath = p
			}
		}
		frags = append(frags, frag)
	}

	if header == nil {
		return Flavor{}, &LoadError{Path: dir, Reason: "no fragment supplied a [flavor] header"}
	}
	return buildFlavor(header, frags, dir)
}

// matchFragmentFiles returns the "NN-*.toml" files directly under dir, in
// lexicographic order, following the doublestar-based discovery style used
// elsewhere in the corpus for glob-pattern file collection.
func matchFragmentFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var matches []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ok, err := doublestar.Match("[0-9][0-9]-*.toml", e.Name())
		if err != nil {
			return nil, err
		}
		if ok {
			matches = append(matches, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(matches)
	return matches, nil
}

// buildFlavor merges fragments in the order given: later fragments override
// earlier [[commands]] entries with matching (case-insensitive) names and
// append otherwise. This per-command merge is scoped to one layer's
// fragments; across layers the registry replaces whole flavors instead.
func buildFlavor(header *tomlFlavorHeader, frags []Fragment, source string) (Flavor, error) {
	f := Flavor{
		Name:        header.Name,
		Version:     header.Version,
		Description: header.Description,
		Commands:    make(map[string]CommandDef),
	}
	for _, frag := range frags {
		for _, cmd := range frag.Commands {
			key := strings.ToUpper(cmd.Name)
			if key == "" {
				return Flavor{}, &LoadError{Path: source, Reason: "command with empty name"}
			}
			f.Commands[key] = cmd
		}
	}
	return f, nil
}

// DirFS is satisfied by fs.FS implementations used for the embedded flavor
// set (go:embed); LoadEmbedded walks it much as LoadDirectory walks the
// real filesystem, without requiring os.ReadDir, except that it takes every
// *.toml file rather than only "NN-*.toml" names.
type DirFS interface {
	fs.ReadDirFS
	fs.ReadFileFS
}

// LoadEmbedded loads one embedded flavor's fragment files from an fs.FS
// rooted at name (a subdirectory of the embedded resource tree).
func LoadEmbedded(fsys DirFS, name string) (Flavor, error) {
	entries, err := fsys.ReadDir(name)
	if err != nil {
		return Flavor{}, &LoadError{Path: name, Reason: err.Error()}
	}

	var filenames []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".toml") {
			filenames = append(filenames, e.Name())
		}
	}
	sort.Strings(filenames)

	var header *tomlFlavorHeader
	headerPath := ""
	var frags []Fragment
	for _, fn := range filenames {
		p := name + "/" + fn
		data, err := fsys.ReadFile(p)
		if err != nil {
			return Flavor{}, &LoadError{Path: p, Reason: err.Error()}
		}
		frag, err := ParseFragment(data)
		if err != nil {
			return Flavor{}, &LoadError{Path: p, Reason: err.Error()}
		}
		if frag.Header != nil {
			if header != nil && !strings.EqualFold(header.Name, frag.Header.Name) {
				return Flavor{}, &LoadError{
					Path:   p,
					Reason: fmt.Sprintf("conflicting flavor name %q; layer already named %q in %s", frag.Header.Name, header.Name, headerPath),
				}
			}
			if header == nil {
				header = frag.Header
				headerPath = p
			}
		}
		frags = append(frags, frag)
	}
	if header == nil {
		return Flavor{}, &LoadError{Path: name, Reason: "no embedded fragment supplied a [flavor] header"}
	}
	return buildFlavor(header, frags, name)
}
