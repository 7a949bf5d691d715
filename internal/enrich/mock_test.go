package enrich

import (
	"context"

	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/sells-group/apollo-cli/pkg/apollo"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

// --- Apollo Mock ---

type mockApolloClient struct {
	mock.Mock
}

func (m *mockApolloClient) Match(ctx context.Context, req apollo.MatchRequest) (*apollo.Person, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*apollo.Person), args.Error(1)
}

func (m *mockApolloClient) UnlockMobile(ctx context.Context, req apollo.UnlockRequest) (*apollo.Person, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*apollo.Person), args.Error(1)
}
