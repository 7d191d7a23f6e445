// Package export writes one scrape run to its output folder.
package export

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/rotisserie/eris"

	"leadhunt-engine/internal/domain"
	"leadhunt-engine/internal/scrapeerr"
)

const (
	ContactableFile = "contactable_leads.json"
	ResearchFile    = "research_leads.json"
	StatsFile       = "stats.json"
	MetadataFile    = "run_metadata.json"
	AllJSONFile     = "all_leads.json"
	AllCSVFile      = "all_leads.csv"

	lockFile     = ".leadhunt.lock"
	folderLayout = "20060102_150405"
)

// Run is everything a finished scrape persists.
type Run struct {
	All         []domain.Lead
	Contactable []domain.Lead
	Research    []domain.Lead
	Stats       domain.LeadStats
	Metadata    domain.RunMetadata
}

// OutputDir creates and returns the folder for a run started at now:
// base/<ts>_scrape, base/<ts>_<folder>, or base itself when noTimestamp.
func OutputDir(base, folder string, noTimestamp bool, now time.Time) (string, error) {
	dir := base
	if !noTimestamp {
		ts := now.UTC().Format(folderLayout)
		if folder == "" {
			dir = filepath.Join(base, ts+"_scrape")
		} else {
			dir = filepath.Join(base, ts+"_"+folder)
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", scrapeerr.IO("create output directory "+dir, err)
	}
	return dir, nil
}

// Lock takes an exclusive lock on base so two runs never write into the
// same output tree. The returned func releases it.
func Lock(base string) (func() error, error) {
	if err := os.MkdirAll(base, 0o755); err != nil {
		return nil, scrapeerr.IO("create "+base, err)
	}
	fl := flock.New(filepath.Join(base, lockFile))
	ok, err := fl.TryLock()
	if err != nil {
		return nil, scrapeerr.IO("lock "+base, err)
	}
	if !ok {
		return nil, scrapeerr.IO("lock "+base, eris.New("another run is writing to this directory"))
	}
	return fl.Unlock, nil
}

// WriteRun writes the six run files into dir. Each file is replaced
// atomically; a failure leaves earlier files in place.
func WriteRun(dir string, r Run) error {
	files := []struct {
		name string
		v    any
	}{
		{ContactableFile, nonNil(r.Contactable)},
		{ResearchFile, nonNil(r.Research)},
		{StatsFile, r.Stats},
		{MetadataFile, r.Metadata},
		{AllJSONFile, nonNil(r.All)},
	}
	for _, f := range files {
		b, err := json.MarshalIndent(f.v, "", "  ")
		if err != nil {
			return scrapeerr.IO("encode "+f.name, err)
		}
		if err := writeAtomic(filepath.Join(dir, f.name), b); err != nil {
			return err
		}
	}
	return writeAtomic(filepath.Join(dir, AllCSVFile), []byte(CSV(r.All)))
}

func writeAtomic(path string, b []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return scrapeerr.IO("write "+tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return scrapeerr.IO("rename "+tmp, err)
	}
	return nil
}

func nonNil(l []domain.Lead) []domain.Lead {
	if l == nil {
		return []domain.Lead{}
	}
	return l
}
