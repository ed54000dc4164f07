package types

// PageData is a struct to hold web page data
type PageData struct {
	Active          string
	Meta            *Meta
	Data            interface{}
	Version         string
	BuildTime       string
	Year            int
	SiteTitle       string
	SiteSubtitle    string
	EthExplorerLink string
	Lang            string
	Debug           bool
}

// Meta is a struct to hold metadata about the page
type Meta struct {
	Title       string
	Description string
	Domain      string
	Path        string
	Templates   string
	// seconds until the page reloads itself, 0 disables the refresh
	Refresh int
}

type Empty struct{}
