// Package session holds the active project context: the established root,
// its file inventory, the symbol index, and a parsed-unit cache. Every
// query operation runs against a Session; nothing works before a
// successful explore.
//
// # Lifecycle
//
//	manager := session.NewManager(store, parser.New(), nil)
//
//	sess, err := manager.Explore(ctx, "/path/to/project")
//	if err != nil { ... }
//
//	sess, err = manager.Current() // same session until the next Explore
//
// Explore validates the root, scans the inventory, builds the index, and
// publishes the session with an atomic swap. Last write wins: a new
// explore discards the previous session entirely, and a concurrent
// explore fails fast with ErrIndexingInProgress instead of queueing.
//
// # Inventory Scan
//
// The scan walks the tree once, skipping dependency/build/VCS directories
// (node_modules, vendor, venv, __pycache__, dist, build, target, and the
// like), hidden entries (except .gitignore and .env.example), and
// symlinks. Rules from a root .gitignore apply on top. Records come back
// sorted by path, so scanning an unchanged tree twice yields an identical
// inventory.
//
// # Query Services
//
//	slice, err := sess.ReadFileRange("pkg/util.py", 10, 40)
//	files, err := sess.ListFiles("pkg", session.ListOptions{Extension: ".py", Recursive: true})
//	overview := sess.Overview()
//	result, err := sess.ParseUnit("pkg/util.py")
//	index := sess.Index()
//
// Caller paths resolve against the root; absolute paths outside it and
// ".." escapes fail with ErrPathOutsideProject. Reads decode UTF-8 first
// and fall back to Latin-1; binary content fails with ErrFileUnreadable.
//
// # Parsed-Unit Cache
//
// ParseUnit serves repeated parses of the same content from an LRU cache
// keyed by path and validated by content hash. When the hash misses, the
// file is re-parsed and the index snapshot refreshed for just that file,
// so symbol queries converge to current text without a full explore.
package session
