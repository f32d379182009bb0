package source

// Kind is the type of a repository tree entry.
type Kind string

const (
	KindFile      Kind = "file"
	KindDirectory Kind = "dir"
)

// FileDescriptor identifies one entry of a repository tree.
type FileDescriptor struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Kind Kind   `json:"type"`
}

// RepositoryRef is a repository of the analysed user. Files is filled by ListFiles before analysis.
type RepositoryRef struct {
	Name        string           `json:"name"`
	OwnerLogin  string           `json:"owner"`
	Description string           `json:"description,omitempty"`
	HTMLURL     string           `json:"html_url,omitempty"`
	Language    string           `json:"language,omitempty"`
	Fork        bool             `json:"fork,omitempty"`
	Files       []FileDescriptor `json:"-"`
}

// Profile is the public GitHub profile of a user.
type Profile struct {
	Login       string `json:"login"`
	Name        string `json:"name,omitempty"`
	Company     string `json:"company,omitempty"`
	Location    string `json:"location,omitempty"`
	Bio         string `json:"bio,omitempty"`
	Blog        string `json:"blog,omitempty"`
	HTMLURL     string `json:"html_url,omitempty"`
	PublicRepos int    `json:"public_repos"`
	Followers   int    `json:"followers"`
}
