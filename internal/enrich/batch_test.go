package enrich

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/apollo-cli/internal/cost"
	"github.com/sells-group/apollo-cli/internal/model"
	"github.com/sells-group/apollo-cli/pkg/apollo"
)

func TestRunnerPreservesOrderAndCredits(t *testing.T) {
	client := &mockApolloClient{}

	// jane: match then successful unlock (1 credit).
	client.On("Match", mock.Anything, apollo.MatchRequest{LinkedInURL: "https://linkedin.com/in/jane-doe/", MatchOnWebsite: true}).
		Return(matchedPerson("p-1", "unavailable", ""), nil)
	client.On("UnlockMobile", mock.Anything, apollo.UnlockRequest{ID: "p-1", MobilePhoneOnly: true}).
		Return(matchedPerson("p-1", "verified", "+15551234567"), nil)

	// bob: no match.
	client.On("Match", mock.Anything, apollo.MatchRequest{LinkedInURL: "https://linkedin.com/in/bob", MatchOnWebsite: true}).
		Return(nil, nil)

	ledger := cost.NewLedger(1)
	runner := NewRunner(NewEnricher(client, ledger))

	urls := []string{
		"https://linkedin.com/in/jane-doe/",
		"https://invalid-url",
		"https://linkedin.com/in/bob",
	}
	records, total := runner.Run(context.Background(), urls)

	require.Len(t, records, 3)
	assert.Equal(t, 1, total)

	assert.Equal(t, model.RowStatusEnriched, records[0].Status)
	assert.Equal(t, "+15551234567", records[0].VerifiedMobile)
	assert.Equal(t, 1, records[0].CreditsUsed)

	assert.Equal(t, model.RowStatusInvalidURL, records[1].Status)
	assert.Equal(t, "https://invalid-url", records[1].LinkedInURL)

	assert.Equal(t, model.RowStatusNoMatch, records[2].Status)
	assert.Equal(t, "https://linkedin.com/in/bob", records[2].LinkedInURL)

	client.AssertExpectations(t)
}

func TestRunnerEmptyBatch(t *testing.T) {
	client := &mockApolloClient{}
	runner := NewRunner(NewEnricher(client, cost.NewLedger(1)))

	records, total := runner.Run(context.Background(), nil)

	assert.Empty(t, records)
	assert.Zero(t, total)
	client.AssertNotCalled(t, "Match")
}

func TestRunnerCreditTotalMatchesSuccessfulUnlocks(t *testing.T) {
	client := &mockApolloClient{}

	client.On("Match", mock.Anything, mock.Anything).
		Return(matchedPerson("p-1", "unavailable", ""), nil)

	// Alternate unlock outcomes: number, no number, number.
	client.On("UnlockMobile", mock.Anything, mock.Anything).
		Return(matchedPerson("p-1", "verified", "+15551111111"), nil).Once()
	client.On("UnlockMobile", mock.Anything, mock.Anything).
		Return(matchedPerson("p-1", "no_phone", ""), nil).Once()
	client.On("UnlockMobile", mock.Anything, mock.Anything).
		Return(matchedPerson("p-1", "verified", "+15552222222"), nil).Once()

	ledger := cost.NewLedger(1)
	runner := NewRunner(NewEnricher(client, ledger))

	urls := []string{
		"https://linkedin.com/in/a",
		"https://linkedin.com/in/b",
		"https://linkedin.com/in/c",
	}
	records, total := runner.Run(context.Background(), urls)

	// Credits == unlock calls that returned a number, never more.
	require.Len(t, records, 3)
	assert.Equal(t, 2, total)
	assert.Equal(t, 1, records[0].CreditsUsed)
	assert.Equal(t, 1, records[1].CreditsUsed)
	assert.Equal(t, 2, records[2].CreditsUsed)
}
