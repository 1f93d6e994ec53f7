package model

// FileEntry describes a file replica to be registered with the data
// management service.
type FileEntry struct {
	Name    string `json:"name" yaml:"name"`
	Bytes   int64  `json:"bytes" yaml:"bytes"`
	MD5     string `json:"md5" yaml:"md5"`
	Adler32 string `json:"adler32" yaml:"adler32"`
	Scope   string `json:"scope" yaml:"scope"`
}

// DID of the registered file
func (e FileEntry) DID() DID {
	return DID{Scope: e.Scope, Name: e.Name}
}

// FileEntries is a collection of file replicas
type FileEntries []FileEntry

// Names returns the set of entry names
func (e FileEntries) Names() map[string]struct{} {
	names := make(map[string]struct{}, len(e))
	for _, entry := range e {
		names[entry.Name] = struct{}{}
	}
	return names
}

// Without filters out entries whose name is in the given set
func (e FileEntries) Without(names map[string]struct{}) FileEntries {
	kept := make(FileEntries, 0, len(e))
	for _, entry := range e {
		if _, ok := names[entry.Name]; ok {
			continue
		}
		kept = append(kept, entry)
	}
	return kept
}
