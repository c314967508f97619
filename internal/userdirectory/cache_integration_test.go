//go:build integration

package userdirectory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"customer-service/pkg/testutil/containers"
)

type CachedDirectorySuite struct {
	suite.Suite
	redis  *containers.RedisContainer
	origin *countingDirectory
	dir    *CachedDirectory
}

func TestCachedDirectorySuite(t *testing.T) {
	suite.Run(t, new(CachedDirectorySuite))
}

func (s *CachedDirectorySuite) SetupSuite() {
	s.redis = containers.GetManager().GetRedis(s.T())
}

func (s *CachedDirectorySuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
	s.origin = &countingDirectory{StaticDirectory: NewStaticDirectory(User{UserID: 1, Name: "Ada", Email: "ada@example.com"})}
	s.dir = NewCachedDirectory(s.origin, s.redis.Client, time.Minute, nil)
}

func (s *CachedDirectorySuite) TestReadThrough() {
	ctx := context.Background()

	first, err := s.dir.GetUserByID(ctx, 1)
	s.Require().NoError(err)
	s.Equal("Ada", first.Name)

	second, err := s.dir.GetUserByID(ctx, 1)
	s.Require().NoError(err)
	s.Equal(*first, *second)
	s.Equal(1, s.origin.calls, "second lookup served from cache")
}

func (s *CachedDirectorySuite) TestAbsentUserNotCached() {
	ctx := context.Background()

	user, err := s.dir.GetUserByID(ctx, 42)
	s.Require().NoError(err)
	s.Nil(user)

	s.origin.Put(User{UserID: 42, Name: "Grace"})
	user, err = s.dir.GetUserByID(ctx, 42)
	s.Require().NoError(err)
	s.Require().NotNil(user, "user created upstream is visible immediately")
	s.Equal("Grace", user.Name)
	s.Equal(2, s.origin.calls)
}

func (s *CachedDirectorySuite) TestGetAllUsersCached() {
	ctx := context.Background()

	users, err := s.dir.GetAllUsers(ctx)
	s.Require().NoError(err)
	s.Len(users, 1)

	s.origin.Put(User{UserID: 2, Name: "Alan"})
	cached, err := s.dir.GetAllUsers(ctx)
	s.Require().NoError(err)
	s.Len(cached, 1, "list stays cached until TTL expires")
}
