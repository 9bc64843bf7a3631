package token

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/harborline/battleship-go/internal/dependencies/mocks"
	"github.com/harborline/battleship-go/internal/model"
	"github.com/harborline/battleship-go/internal/storage/memory"
	"github.com/harborline/battleship-go/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	service *Service
	ctx     context.Context
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.service = New(s.storage, s.clock, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ServiceSuite) TestIssueAndValidate() {
	raw, err := s.service.Issue(s.ctx, "GAME01", "p_alice")
	s.Require().NoError(err)
	s.True(strings.HasPrefix(raw, "rt_"))

	record, err := s.service.Validate(s.ctx, raw)
	s.Require().NoError(err)
	s.Equal(model.GameCode("GAME01"), record.GameCode)
	s.Equal(model.PlayerID("p_alice"), record.PlayerID)
	s.Equal(s.clock.Now(), record.CreatedAt)
}

func (s *ServiceSuite) TestValidateUnknownToken() {
	_, err := s.service.Validate(s.ctx, "rt_never-issued")
	s.ErrorIs(err, model.ErrTokenNotFound)
}

func (s *ServiceSuite) TestTokensAreUnique() {
	a, err := s.service.Issue(s.ctx, "GAME01", "p_alice")
	s.Require().NoError(err)
	b, err := s.service.Issue(s.ctx, "GAME01", "p_alice")
	s.Require().NoError(err)
	s.NotEqual(a, b)

	// Both remain valid; issuing does not revoke earlier tokens
	_, err = s.service.Validate(s.ctx, a)
	s.NoError(err)
	_, err = s.service.Validate(s.ctx, b)
	s.NoError(err)
}

func (s *ServiceSuite) TestRawTokenNotPersisted() {
	raw, err := s.service.Issue(s.ctx, "GAME01", "p_alice")
	s.Require().NoError(err)

	record, err := s.service.Validate(s.ctx, raw)
	s.Require().NoError(err)
	s.NotEqual(raw, record.Digest)
	s.NotContains(record.Digest, raw)
}

func (s *ServiceSuite) TestRevokeForGame() {
	a, err := s.service.Issue(s.ctx, "GAME01", "p_alice")
	s.Require().NoError(err)
	other, err := s.service.Issue(s.ctx, "GAME02", "p_bob")
	s.Require().NoError(err)

	s.Require().NoError(s.service.RevokeForGame(s.ctx, "GAME01"))

	_, err = s.service.Validate(s.ctx, a)
	s.ErrorIs(err, model.ErrTokenNotFound)

	// Tokens for other games are untouched
	_, err = s.service.Validate(s.ctx, other)
	s.NoError(err)
}
