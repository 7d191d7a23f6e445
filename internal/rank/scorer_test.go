package rank

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadhunt-engine/internal/domain"
)

func lead(t *testing.T, name string) domain.Lead {
	t.Helper()
	l, err := domain.NewLead(name, domain.DirectorySource())
	require.NoError(t, err)
	return l
}

func TestByContactScoreStableDescending(t *testing.T) {
	a := lead(t, "a")
	b := lead(t, "b").WithTwitter("https://twitter.com/b")
	c := lead(t, "c").WithEmail("c@c.io")
	d := lead(t, "d")
	e := lead(t, "e").WithEmail("e@e.io").WithLinkedIn("https://linkedin.com/company/e")

	in := []domain.Lead{a, b, c, d, e}
	got := ByContactScore(in)

	names := make([]string, 0, len(got))
	for _, l := range got {
		names = append(names, l.Name)
	}
	assert.Equal(t, []string{"e", "c", "b", "a", "d"}, names)
	assert.Equal(t, "a", in[0].Name, "input untouched")
}

func TestByContactScoreEmpty(t *testing.T) {
	assert.Empty(t, ByContactScore(nil))
}

func TestContactScorerTags(t *testing.T) {
	l := lead(t, "x").WithGitHubEmail("dev@x.io").WithCountry("Germany")
	score, tags := ContactScorer{}.Score(l)
	assert.Equal(t, l.ContactScore(), score)
	assert.Equal(t, []string{TagGitHubEmail, TagCountry}, tags)

	_, none := ContactScorer{}.Score(lead(t, "y"))
	assert.Empty(t, none)
}
