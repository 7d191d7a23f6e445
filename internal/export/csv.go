package export

import (
	"strconv"
	"strings"

	"leadhunt-engine/internal/domain"
	"leadhunt-engine/internal/rank"
)

const (
	CSVHeader       = "Name,Website,Email,GitHub Email,LinkedIn,Twitter,Source,Country,Description,Scraped At,Contact Score"
	scrapedAtLayout = "2006-01-02 15:04:05 UTC"
)

// CSV renders leads ranked by contact score, best first.
func CSV(leads []domain.Lead) string {
	var sb strings.Builder
	sb.WriteString(CSVHeader)
	sb.WriteByte('\n')
	for _, l := range rank.ByContactScore(leads) {
		fields := []string{
			l.Name,
			l.Website,
			l.Email,
			l.GitHubEmail,
			l.LinkedIn,
			l.Twitter,
			l.Source.Display(),
			l.Country,
			strings.ReplaceAll(l.Description, "\n", " "),
			l.ScrapedAt.UTC().Format(scrapedAtLayout),
			strconv.Itoa(l.ContactScore()),
		}
		for i, f := range fields {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(CSVEscape(f))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// CSVEscape quotes a field holding a comma, quote or newline and doubles
// embedded quotes. Other fields pass through unchanged.
func CSVEscape(s string) string {
	if !strings.ContainsAny(s, ",\"\n") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
