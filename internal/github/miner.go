package github

import (
	"context"
	"net/url"
	"sort"
	"strings"

	"go.uber.org/zap"

	"leadhunt-engine/internal/scrapeerr"
)

const (
	commitsPerPage = 15
	maxEmails      = 2
)

var invalidCommitDomains = []string{
	"users.noreply.github.com",
	"noreply.github.com",
	"example.com",
	"localhost",
	"test.com",
	"placeholder.com",
}

var invalidCommitEmails = []string{
	"noreply@github.com",
	"action@github.com",
	"actions@github.com",
	"github-actions@github.com",
	"github-actions[bot]@users.noreply.github.com",
	"dependabot[bot]@users.noreply.github.com",
	"renovate[bot]@users.noreply.github.com",
	"snyk-bot@users.noreply.github.com",
}

var (
	automationMarkers = []string{"noreply", "[bot]", "action", "automated"}
	webmailDomains    = []string{"@gmail.com", "@yahoo.com", "@hotmail.com", "@outlook.com", "@protonmail.com", "@icloud.com"}
	bigTechDomains    = []string{"@google.com", "@microsoft.com", "@apple.com", "@facebook.com", "@meta.com", "@amazon.com"}
)

// Miner derives contributor emails from a repository's recent commits.
type Miner struct {
	c   *Client
	log *zap.Logger
}

func NewMiner(c *Client, log *zap.Logger) *Miner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Miner{c: c, log: log}
}

// CommitEmails returns at most two ranked emails for repoURL. Every failure
// is logged and reported as no emails.
func (m *Miner) CommitEmails(ctx context.Context, repoURL string) []string {
	emails, err := m.mine(ctx, repoURL)
	if err != nil {
		m.log.Debug("commit email mining failed", zap.String("repo_url", repoURL), zap.Error(err))
		return nil
	}
	return emails
}

func (m *Miner) mine(ctx context.Context, repoURL string) ([]string, error) {
	path, err := ParseRepoPath(repoURL)
	if err != nil {
		return nil, err
	}

	repo, err := m.c.Repo(ctx, path)
	if err != nil {
		return nil, err
	}
	if repo.Fork {
		m.log.Debug("skipping fork repository", zap.String("repo", path))
		return nil, nil
	}

	commits, err := m.c.RecentCommits(ctx, path, repo.DefaultBranch, commitsPerPage)
	if err != nil {
		return nil, err
	}

	var candidates []string
	for _, cm := range commits {
		candidates = append(candidates, cm.Commit.Author.Email, cm.Commit.Committer.Email)
	}
	return RankEmails(candidates, maxEmails), nil
}

// ParseRepoPath returns "owner/repo" from the first two path segments of a
// repository URL.
func ParseRepoPath(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return "", scrapeerr.Newf(scrapeerr.KindParse, "github: parse repo url", "invalid repository URL %q", raw)
	}
	var segs []string
	for _, s := range strings.Split(u.Path, "/") {
		if s != "" {
			segs = append(segs, s)
		}
	}
	if len(segs) < 2 {
		return "", scrapeerr.Newf(scrapeerr.KindParse, "github: parse repo url", "no owner/repo in %q", raw)
	}
	return segs[0] + "/" + strings.TrimSuffix(segs[1], ".git"), nil
}

// RankEmails keeps valid emails, dedupes them in first-seen order, orders
// them by EmailPriority and truncates to keep.
func RankEmails(candidates []string, keep int) []string {
	seen := make(map[string]struct{}, len(candidates))
	var out []string
	for _, e := range candidates {
		e = strings.TrimSpace(e)
		if !ValidCommitEmail(e) {
			continue
		}
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return EmailPriority(out[i]) > EmailPriority(out[j])
	})
	if keep >= 0 && len(out) > keep {
		out = out[:keep]
	}
	return out
}

// ValidCommitEmail filters automation, placeholder and malformed addresses.
func ValidCommitEmail(email string) bool {
	if !strings.Contains(email, "@") || !strings.Contains(email, ".") {
		return false
	}
	for _, bad := range invalidCommitEmails {
		if strings.EqualFold(email, bad) {
			return false
		}
	}
	if strings.Contains(email, "[bot]") || strings.Contains(email, "bot@") {
		return false
	}

	parts := strings.Split(email, "@")
	if len(parts) != 2 || parts[0] == "" {
		return false
	}
	domain := strings.ToLower(parts[1])
	if !strings.Contains(domain, ".") {
		return false
	}
	// whole-label match: dev@mytest.com stays valid, dev@ci.test.com does not
	for _, d := range invalidCommitDomains {
		if domain == d || strings.HasSuffix(domain, "."+d) {
			return false
		}
	}
	return true
}

// EmailPriority ranks an address: 5 custom domain, 4 big tech, 2 free
// webmail, 0 automation-looking.
func EmailPriority(email string) int {
	switch {
	case containsAny(email, automationMarkers):
		return 0
	case containsAny(email, webmailDomains):
		return 2
	case containsAny(email, bigTechDomains):
		return 4
	default:
		return 5
	}
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
