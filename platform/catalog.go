package platform

// Key is the canonical identifier of a download platform.
type Key string

const (
	Unknown Key = ""
	Windows Key = "windows"
	MacOS   Key = "macos"
	Linux   Key = "linux"
	Android Key = "android"
	IOS     Key = "ios"
)

// Valid reports whether k is one of the canonical platform keys.
func (k Key) Valid() bool {
	switch k {
	case Windows, MacOS, Linux, Android, IOS:
		return true
	}
	return false
}

func (k Key) String() string {
	if k == Unknown {
		return "unknown"
	}
	return string(k)
}

// Entry is a single download option.
type Entry struct {
	Name        string `json:"name"`
	Key         Key    `json:"key"`
	DownloadURL string `json:"downloadUrl"`
	Icon        string `json:"icon"`
}

// Catalog is an ordered, read-only list of download options.
type Catalog struct {
	entries []Entry
}

// Default lists every supported platform, in the order they are shown on the download page.
var Default = NewCatalog(
	Entry{
		Name:        "Windows",
		Key:         Windows,
		DownloadURL: "https://example.com/download/windows-installer.exe",
		Icon:        "fa-brands fa-windows",
	},
	Entry{
		Name:        "macOS",
		Key:         MacOS,
		DownloadURL: "https://example.com/download/macos-installer.dmg",
		Icon:        "fa-brands fa-apple",
	},
	Entry{
		Name:        "Linux",
		Key:         Linux,
		DownloadURL: "https://example.com/download/linux-installer.AppImage",
		Icon:        "fa-brands fa-linux",
	},
	Entry{
		Name:        "Android",
		Key:         Android,
		DownloadURL: "https://example.com/download/android.apk",
		Icon:        "fa-brands fa-android",
	},
	Entry{
		Name:        "iOS",
		Key:         IOS,
		DownloadURL: "https://example.com/download/ios.ipa",
		Icon:        "fa-brands fa-apple",
	},
)

// NewCatalog copies entries into a new Catalog.
// Panics on duplicate keys, since a catalog is only ever built from static data at startup.
func NewCatalog(entries ...Entry) *Catalog {
	seen := make(map[Key]bool, len(entries))
	for _, e := range entries {
		if seen[e.Key] {
			panic("platform: duplicate catalog key " + string(e.Key))
		}
		seen[e.Key] = true
	}
	return &Catalog{entries: append([]Entry(nil), entries...)}
}

// Entries returns a copy of all entries in catalog order.
func (c *Catalog) Entries() []Entry {
	return append([]Entry(nil), c.entries...)
}

// Keys returns the key of every entry in catalog order.
func (c *Catalog) Keys() []Key {
	keys := make([]Key, 0, len(c.entries))
	for _, e := range c.entries {
		keys = append(keys, e.Key)
	}
	return keys
}

// Lookup finds the entry with the given key.
func (c *Catalog) Lookup(key Key) (Entry, bool) {
	for _, e := range c.entries {
		if e.Key == key {
			return e, true
		}
	}
	return Entry{}, false
}

// Selection is the catalog split around a detected platform.
type Selection struct {
	Detected *Entry  `json:"detectedPlatform"`
	Others   []Entry `json:"otherPlatforms"`
}

// Partition splits the catalog into the entry matching key (if any) and
// all remaining entries, which keep their catalog order.
func (c *Catalog) Partition(key Key) Selection {
	s := Selection{Others: make([]Entry, 0, len(c.entries))}
	for _, e := range c.entries {
		if key != Unknown && e.Key == key && s.Detected == nil {
			detected := e
			s.Detected = &detected
			continue
		}
		s.Others = append(s.Others, e)
	}
	return s
}

// Recommend detects the platform for userAgent and partitions the catalog around it.
func Recommend(c *Catalog, userAgent string) (Key, Selection) {
	key := Detect(userAgent)
	return key, c.Partition(key)
}
