// Package register bulk-registers a file tree as replicas and datasets
// at a storage element of the data management service.
package register

import (
	"path"
	"strings"
)

// datasetRoot prefixes every classified dataset name
const datasetRoot = "Dataset/"

// TypeInfo is the dataset type extracted from a store key
type TypeInfo struct {
	Name    string
	Massive bool // per-tract, per-visit products get their own partition
}

// ParseKey extracts the dataset type from a store key. Keys follow the
// repository layout <run>/<type>/.../<file>: the type is the second
// path segment when there is one, otherwise the first. Products keyed
// by both tract and visit carry those dimensions in the file name.
func ParseKey(key string) TypeInfo {
	key = strings.Trim(key, "/")
	parts := strings.Split(key, "/")

	var name string
	switch {
	case len(parts) >= 3:
		name = parts[1]
	case len(parts) > 0:
		name = parts[0]
	}
	file := path.Base(key)
	return TypeInfo{
		Name:    name,
		Massive: strings.Contains(file, "tract") && strings.Contains(file, "visit"),
	}
}

// Dataset classifies a dataset type into the dataset its files belong
// to. Configuration, provenance, maps, images and catalogs each get
// their own subtree, anything unrecognized is filed under its own type
// name.
func Dataset(info TypeInfo) string {
	name := info.Name
	var base string
	switch {
	case strings.HasSuffix(name, "_config") || name == "skyMap":
		base = "Configuration"
	case strings.HasSuffix(name, "_log"):
		base = "Provenance"
		if info.Massive {
			base = "Provenance/" + strings.TrimSuffix(name, "_log")
		}
	case strings.HasSuffix(name, "_metadata"):
		base = "Provenance"
		if info.Massive {
			base = "Provenance/" + strings.TrimSuffix(name, "_metadata")
		}
	case strings.Contains(name, "_consolidated_map_"):
		base = "Map"
	case strings.Contains(name, "_image") ||
		strings.Contains(name, "_coadd") ||
		strings.Contains(name, "_background"):
		base = "Image/" + name
	case strings.Contains(name, "object") ||
		strings.Contains(name, "source") ||
		strings.Contains(name, "table") ||
		strings.Contains(name, "summary"):
		base = "Catalog/" + name
	case strings.HasPrefix(name, "the_monster_"):
		base = "ReferenceCatalog"
	default:
		base = name
	}
	return datasetRoot + base
}

// DatasetForKey classifies a store key directly
func DatasetForKey(key string) string {
	return Dataset(ParseKey(key))
}
