package metadata

// Metadata is the set of directories populated from one file.
type Metadata struct {
	dirs []*Directory
}

// AddDirectory appends d. Directories keep the order they were added in.
func (m *Metadata) AddDirectory(d *Directory) {
	m.dirs = append(m.dirs, d)
}

// Directory returns the first directory with the given name, or nil.
func (m *Metadata) Directory(name string) *Directory {
	for _, d := range m.dirs {
		if d.name == name {
			return d
		}
	}
	return nil
}

// DirectoryOrAdd returns the first directory with the given name, adding
// the one built by newDir if there is none.
func (m *Metadata) DirectoryOrAdd(name string, newDir func() *Directory) *Directory {
	if d := m.Directory(name); d != nil {
		return d
	}
	d := newDir()
	m.AddDirectory(d)
	return d
}

func (m *Metadata) Directories() []*Directory {
	return append([]*Directory(nil), m.dirs...)
}

// HasErrors reports whether any directory recorded an error.
func (m *Metadata) HasErrors() bool {
	for _, d := range m.dirs {
		if d.HasErrors() {
			return true
		}
	}
	return false
}
