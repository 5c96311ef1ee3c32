package domain

// License describes the license of an icon collection.
type License struct {
	Title string
	SPDX  string
	URL   string
}

// Author credits the creator of an icon collection.
type Author struct {
	Name string
	URL  string
}

// Collection is the metadata of one icon set. Prefix is the primary key;
// every Icon.Prefix must reference an existing Collection.
type Collection struct {
	Prefix     string
	Name       string
	Total      int
	Author     Author
	License    License
	Category   string
	Palette    bool
	Samples    []string
	Categories []string
}
