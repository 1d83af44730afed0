package flavor

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/gcode-lsp/gcode-ls/internal/log"
)

// layer identifies one of the four precedence levels a flavor can be
// sourced from (lowest to highest, per SPEC_FULL.md §5).
type layer int

const (
	layerEmbedded layer = iota
	layerUserGlobal
	layerWorkspace
	layerCallerDir
	numLayers
)

// Subscriber is notified after the registry installs a new Flavor value for
// name, replacing whatever was previously returned by Get(name).
type Subscriber func(name string, fl Flavor)

// Registry is a process-wide, lock-guarded table of merged flavors. It is
// initialized once with a list of source directories (one per non-embedded
// layer) and the embedded set, then mutated only by the loader — reload
// calls triggered by filesystem watch events — which installs a fully
// merged flavor atomically. Readers always see a complete flavor or the
// previous one, never a partial merge: the merged map is replaced whole
// under the RWMutex's write lock.
type Registry struct {
	mu     sync.RWMutex
	layers [numLayers]map[string]Flavor // name -> flavor, per layer
	merged map[string]Flavor            // name -> highest-precedence merge

	userGlobalDir string
	workspaceDir  string
	callerDir     string

	watcher     *fsnotify.Watcher
	subscribers []Subscriber
	subMu       sync.Mutex
}

// NewRegistry constructs a Registry from its embedded set and the three
// optional directory layers. Missing directories are tolerated: a layer
// with no directory configured, or whose directory doesn't exist yet,
// simply contributes nothing.
func NewRegistry(embedded map[string]Flavor, userGlobalDir, workspaceDir, callerDir string) *Registry {
	r := &Registry{
		userGlobalDir: userGlobalDir,
		workspaceDir:  workspaceDir,
		callerDir:     callerDir,
		merged:        make(map[string]Flavor),
	}
	r.layers[layerEmbedded] = cloneLayer(embedded)
	r.layers[layerUserGlobal] = loadLayerDir(userGlobalDir)
	r.layers[layerWorkspace] = loadLayerDir(workspaceDir)
	r.layers[layerCallerDir] = loadLayerDir(callerDir)
	r.recomputeAll()
	return r
}

func cloneLayer(in map[string]Flavor) map[string]Flavor {
	out := make(map[string]Flavor, len(in))
	for k, v := range in {
		out[strings.ToUpper(k)] = v
	}
	return out
}

// loadLayerDir loads every immediate subdirectory of dir as one named
// flavor's fragment directory (<dir>/<name>/NN-*.toml), tolerating a
// missing or empty root directory.
func loadLayerDir(dir string) map[string]Flavor {
	out := make(map[string]Flavor)
	if dir == "" {
		return out
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return out
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		sub := filepath.Join(dir, e.Name())
		fl, err := LoadDirectory(sub)
		if err != nil {
			log.Warn("flavor: skipping %s: %v", sub, err)
			continue
		}
		out[strings.ToUpper(fl.Name)] = fl
	}
	return out
}

// recomputeAll rebuilds merged from the four layers, highest layer wins a
// whole-flavor replacement on name collision (SPEC_FULL.md §5): a higher
// layer's flavor of the same name displaces the lower one completely, with
// no per-command merge between layers.
func (r *Registry) recomputeAll() {
	merged := make(map[string]Flavor)
	for l := layer(0); l < numLayers; l++ {
		for name, fl := range r.layers[l] {
			merged[name] = fl
		}
	}
	r.merged = merged
}

// Get returns the merged flavor for name, case-insensitively.
func (r *Registry) Get(name string) (Flavor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fl, ok := r.merged[strings.ToUpper(name)]
	return fl, ok
}

// ListNames returns the set of flavor names currently resolvable.
func (r *Registry) ListNames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.merged))
	for name := range r.merged {
		names = append(names, name)
	}
	return names
}

// Subscribe registers cb to be called whenever a flavor is installed or
// replaced by ReloadFrom.
func (r *Registry) Subscribe(cb Subscriber) {
	r.subMu.Lock()
	defer r.subMu.Unlock()
	r.subscribers = append(r.subscribers, cb)
}

func (r *Registry) notify(name string, fl Flavor) {
	r.subMu.Lock()
	subs := append([]Subscriber(nil), r.subscribers...)
	r.subMu.Unlock()
	for _, cb := range subs {
		cb(name, fl)
	}
}

// ReloadFrom re-reads the flavor rooted at path (a single file or a
// fragment directory) and atomically installs the result into whichever
// configured layer owns path. It returns a *LoadError, never a partial
// flavor, leaving the previously merged flavor active on failure.
func (r *Registry) ReloadFrom(path string) error {
	l, ok := r.layerFor(path)
	if !ok {
		return &LoadError{Path: path, Reason: "path is not under any configured flavor layer"}
	}

	info, err := os.Stat(path)
	var fl Flavor
	if err != nil {
		return &LoadError{Path: path, Reason: err.Error()}
	}
	if info.IsDir() {
		fl, err = LoadDirectory(path)
	} else {
		fl, err = LoadFile(path)
	}
	if err != nil {
		return err
	}

	name := strings.ToUpper(fl.Name)

	r.mu.Lock()
	r.layers[l][name] = fl
	r.recomputeAll()
	merged := r.merged[name]
	r.mu.Unlock()

	r.notify(name, merged)
	return nil
}

func (r *Registry) layerFor(path string) (layer, bool) {
	switch {
	case r.callerDir != "" && strings.HasPrefix(path, r.callerDir):
		return layerCallerDir, true
	case r.workspaceDir != "" && strings.HasPrefix(path, r.workspaceDir):
		return layerWorkspace, true
	case r.userGlobalDir != "" && strings.HasPrefix(path, r.userGlobalDir):
		return layerUserGlobal, true
	default:
		return 0, false
	}
}

// WatchLayers starts an fsnotify watch over the user-global, workspace, and
// caller-dir layer roots, reloading the affected flavor directory whenever
// a *.toml file is created, written, or removed beneath it. Call Close to
// stop watching.
func (r *Registry) WatchLayers() error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("flavor: create watcher: %w", err)
	}
	r.watcher = w

	for _, dir := range []string{r.userGlobalDir, r.workspaceDir, r.callerDir} {
		if dir == "" {
			continue
		}
		if err := addRecursive(w, dir); err != nil {
			log.Warn("flavor: watch %s: %v", dir, err)
		}
	}

	go r.watchLoop()
	return nil
}

func addRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}

func (r *Registry) watchLoop() {
	for {
		select {
		case event, ok := <-r.watcher.Events:
			if !ok {
				return
			}
			if !strings.HasSuffix(event.Name, ".toml") {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove) == 0 {
				continue
			}
			dir := filepath.Dir(event.Name)
			if err := r.ReloadFrom(dir); err != nil {
				log.Warn("flavor: live reload failed for %s: %v", event.Name, err)
			}
		case err, ok := <-r.watcher.Errors:
			if !ok {
				return
			}
			log.Warn("flavor: watcher error: %v", err)
		}
	}
}

// Close stops the live-reload watcher, if one was started.
func (r *Registry) Close() error {
	if r.watcher == nil {
		return nil
	}
	return r.watcher.Close()
}
