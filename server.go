package podmirror

// Server is a single crawl target: an origin publishing a discovery root
// document.
type Server struct {
	Name string `json:"name" toml:"name"`
	URL  string `json:"url" toml:"url"`
}

// Validate returns an error if the server contains invalid fields.
func (s *Server) Validate() error {
	if s.URL == "" {
		return Errorf(EINVALID, "server URL required")
	}
	return nil
}

// Snapshot is the aggregated artifact of one crawl across all servers:
// every index and leaf document visited, keyed by URL. Users is reserved
// for a future discovery phase and always serializes as an empty list.
type Snapshot struct {
	Indexes map[string]*Document `json:"indexes"`
	Users   []string             `json:"users"`
}

// NewSnapshot returns an empty Snapshot with both fields initialized so
// they serialize as {} and [] rather than null.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Indexes: make(map[string]*Document),
		Users:   []string{},
	}
}
