package reference_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/etcher-be/igit/internal/domain"
	"github.com/etcher-be/igit/internal/reference"
)

var ownRepo = domain.Repository{Owner: "gitmate-test-user", Name: "test"}

func numbers(l reference.List) []int {
	return l.Numbers()
}

func TestParse_MixedVerbFamilies(t *testing.T) {
	refs := reference.Parse(
		"Fixes #98, closes #104 and resolves gitmate-test-user/test#1", ownRepo)

	assert.ElementsMatch(t, []int{98, 104, 1}, numbers(refs.Mentioned()))
	assert.Equal(t, []int{98}, numbers(refs.WithVerb(reference.VerbFix)))
	assert.Equal(t, []int{104}, numbers(refs.WithVerb(reference.VerbClose)))
	assert.Equal(t, []int{1}, numbers(refs.WithVerb(reference.VerbResolve)))
}

func TestParse_MentionedIsSuperset(t *testing.T) {
	message := "Closes #98, #104\n" +
		"Also mentioning #1 and #107 here\n" +
		"closes #97, fixes #105"

	refs := reference.Parse(message, ownRepo)

	assert.ElementsMatch(t, []int{98, 104, 1, 107, 97, 105}, numbers(refs.Mentioned()))
	assert.ElementsMatch(t, []int{98, 104, 97}, numbers(refs.WithVerb(reference.VerbClose)))
	assert.ElementsMatch(t, []int{105}, numbers(refs.WithVerb(reference.VerbFix)))
	assert.Empty(t, refs.WithVerb(reference.VerbResolve))
}

func TestParse_VerbGovernsUntilNextVerb(t *testing.T) {
	refs := reference.Parse("closes #1 #2 fixes #3 #4", ownRepo)

	assert.Equal(t, []int{1, 2}, numbers(refs.WithVerb(reference.VerbClose)))
	assert.Equal(t, []int{3, 4}, numbers(refs.WithVerb(reference.VerbFix)))
}

func TestParse_VerbDoesNotGovernAcrossLines(t *testing.T) {
	refs := reference.Parse("closes #1\n#2 is related", ownRepo)

	assert.Equal(t, []int{1}, numbers(refs.WithVerb(reference.VerbClose)))
	assert.ElementsMatch(t, []int{1, 2}, numbers(refs.Mentioned()))
}

func TestParse_VerbBeforeTokenOnly(t *testing.T) {
	// A verb after a token governs nothing behind it
	refs := reference.Parse("#7 closes nothing", ownRepo)

	assert.Empty(t, refs.WithVerb(reference.VerbClose))
	assert.Equal(t, []int{7}, numbers(refs.Mentioned()))
}

func TestParse_CaseInsensitiveInflections(t *testing.T) {
	for _, msg := range []string{"CLOSED #5", "Closes #5", "close #5"} {
		refs := reference.Parse(msg, ownRepo)
		assert.Equal(t, []int{5}, numbers(refs.WithVerb(reference.VerbClose)), "message %q", msg)
	}
	for _, msg := range []string{"Fixed #5", "FIXES #5", "fix #5"} {
		refs := reference.Parse(msg, ownRepo)
		assert.Equal(t, []int{5}, numbers(refs.WithVerb(reference.VerbFix)), "message %q", msg)
	}
	for _, msg := range []string{"Resolved #5", "resolves #5", "Resolve #5"} {
		refs := reference.Parse(msg, ownRepo)
		assert.Equal(t, []int{5}, numbers(refs.WithVerb(reference.VerbResolve)), "message %q", msg)
	}
}

func TestParse_CrossRepositoryScope(t *testing.T) {
	refs := reference.Parse("Fixes other-org/lib#12 and #3", ownRepo)

	fixed := refs.WithVerb(reference.VerbFix)
	require.Len(t, fixed, 2)
	assert.Equal(t, domain.Repository{Owner: "other-org", Name: "lib"}, fixed[0].Repo)
	assert.Equal(t, 12, fixed[0].Number)
	assert.Equal(t, ownRepo, fixed[1].Repo)
	assert.Equal(t, 3, fixed[1].Number)
}

func TestParse_SameNumberDifferentRepos(t *testing.T) {
	refs := reference.Parse("closes #1 and other/repo#1", ownRepo)

	mentioned := refs.Mentioned()
	require.Len(t, mentioned, 2)
	assert.Equal(t, ownRepo, mentioned[0].Repo)
	assert.Equal(t, domain.Repository{Owner: "other", Name: "repo"}, mentioned[1].Repo)
}

func TestParse_NoTokens(t *testing.T) {
	refs := reference.Parse("closes nothing, fixes everything, resolves doubts", ownRepo)

	assert.Empty(t, refs)
	assert.Empty(t, refs.Mentioned())
	assert.Empty(t, refs.WithVerb(reference.VerbClose))
	assert.Empty(t, refs.WithVerb(reference.VerbFix))
	assert.Empty(t, refs.WithVerb(reference.VerbResolve))
}

func TestParse_MalformedTokensIgnored(t *testing.T) {
	refs := reference.Parse("see # 5 and #abc and issue# but closes #42", ownRepo)

	assert.Equal(t, []int{42}, numbers(refs.Mentioned()))
	assert.Equal(t, []int{42}, numbers(refs.WithVerb(reference.VerbClose)))
}

func TestParse_DuplicatesPreservedInRawList(t *testing.T) {
	refs := reference.Parse("closes #9, again closes #9", ownRepo)

	// Raw list: mention+close per occurrence
	assert.Len(t, refs, 4)
	// Derived sets deduplicate
	assert.Equal(t, []int{9}, numbers(refs.Mentioned()))
	assert.Equal(t, []int{9}, numbers(refs.WithVerb(reference.VerbClose)))
}

func TestParse_OrderIsFirstOccurrence(t *testing.T) {
	refs := reference.Parse("mentions #3, closes #1, fixes #2", ownRepo)

	assert.Equal(t, []int{3, 1, 2}, numbers(refs.Mentioned()))
}

func TestParse_EmptyMessage(t *testing.T) {
	assert.Empty(t, reference.Parse("", ownRepo))
}
