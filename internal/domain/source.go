package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

type SourceKind string

const (
	SourceDirectory        SourceKind = "directory"
	SourceCuratedList      SourceKind = "curated_list"
	SourceStartupDirectory SourceKind = "startup_directory"
	SourceWebsite          SourceKind = "website"
)

// Source records where a lead came from. Repository is only set for
// curated lists, URL only for website sources.
type Source struct {
	Kind       SourceKind
	Repository string
	URL        string
}

func DirectorySource() Source        { return Source{Kind: SourceDirectory} }
func StartupDirectorySource() Source { return Source{Kind: SourceStartupDirectory} }

func CuratedListSource(repository string) Source {
	return Source{Kind: SourceCuratedList, Repository: repository}
}

func WebsiteSource(url string) Source {
	return Source{Kind: SourceWebsite, URL: url}
}

// Display is the label used in CSV exports and stats buckets.
func (s Source) Display() string {
	switch s.Kind {
	case SourceDirectory:
		return "Y Combinator"
	case SourceCuratedList:
		return "GitHub/" + s.Repository
	case SourceStartupDirectory:
		return "BetaList"
	case SourceWebsite:
		if strings.Contains(s.URL, "github.com") {
			return "GitHub Project"
		}
		return "Website"
	default:
		return "Unknown"
	}
}

func (s Source) String() string { return s.Display() }

type sourceJSON struct {
	Type       SourceKind `json:"type"`
	Repository string     `json:"repository,omitempty"`
	URL        string     `json:"url,omitempty"`
}

func (s Source) MarshalJSON() ([]byte, error) {
	return json.Marshal(sourceJSON{Type: s.Kind, Repository: s.Repository, URL: s.URL})
}

func (s *Source) UnmarshalJSON(b []byte) error {
	var raw sourceJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	switch raw.Type {
	case SourceDirectory, SourceStartupDirectory:
		*s = Source{Kind: raw.Type}
	case SourceCuratedList:
		*s = CuratedListSource(raw.Repository)
	case SourceWebsite:
		*s = WebsiteSource(raw.URL)
	default:
		return fmt.Errorf("unknown source type %q", raw.Type)
	}
	return nil
}
