package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/vadimbarashkov/shortly/internal/entity"
	"github.com/vadimbarashkov/shortly/mocks/usecase"
)

type URLUseCaseTestSuite struct {
	suite.Suite
	errUnknown  error
	urlRepoMock *usecase.MockUrlRepository
	uc          *URLUseCase
}

func (suite *URLUseCaseTestSuite) SetupSuite() {
	suite.errUnknown = errors.New("unknown error")
}

func (suite *URLUseCaseTestSuite) SetupSubTest() {
	suite.urlRepoMock = usecase.NewMockUrlRepository(suite.T())
	suite.uc = New(7, 30*24*time.Hour, 0, suite.urlRepoMock)
}

func (suite *URLUseCaseTestSuite) TearDownSubTest() {
	suite.urlRepoMock.AssertExpectations(suite.T())
}

func (suite *URLUseCaseTestSuite) TestShortenURL() {
	suite.Run("invalid url", func() {
		for _, originalURL := range []string{
			"",
			"not-a-url",
			"example.com/page",
			"http://",
			"ftp://example.com/file",
			"javascript://alert",
		} {
			url, created, err := suite.uc.ShortenURL(context.Background(), originalURL)

			suite.Error(err)
			suite.ErrorIs(err, entity.ErrInvalidURL)
			suite.False(created)
			suite.Nil(url)
		}
	})

	suite.Run("existing url found", func() {
		existing := &entity.URL{
			ShortCode:   "abc1234",
			OriginalURL: "https://example.com",
			Clicks:      3,
		}

		suite.urlRepoMock.
			On("RetrieveByOriginalURL", context.Background(), "https://example.com").
			Once().
			Return(existing, nil)

		url, created, err := suite.uc.ShortenURL(context.Background(), "https://example.com")

		suite.NoError(err)
		suite.False(created)
		suite.Equal(existing, url)
	})

	suite.Run("storage timeout", func() {
		suite.urlRepoMock.
			On("RetrieveByOriginalURL", context.Background(), "https://example.com").
			Once().
			Return(nil, context.DeadlineExceeded)

		url, created, err := suite.uc.ShortenURL(context.Background(), "https://example.com")

		suite.Error(err)
		suite.ErrorIs(err, entity.ErrStorageTimeout)
		suite.False(created)
		suite.Nil(url)
	})

	suite.Run("maximum retries error", func() {
		suite.urlRepoMock.
			On("RetrieveByOriginalURL", context.Background(), "https://example.com").
			Once().
			Return(nil, entity.ErrURLNotFound)
		suite.urlRepoMock.
			On("Save", context.Background(), mock.Anything, "https://example.com", mock.AnythingOfType("time.Time")).
			Times(5).
			Return(nil, entity.ErrShortCodeExists)

		url, created, err := suite.uc.ShortenURL(context.Background(), "https://example.com")

		suite.Error(err)
		suite.ErrorIs(err, ErrMaxRetriesExceeded)
		suite.False(created)
		suite.Nil(url)
	})

	suite.Run("unknown error", func() {
		suite.urlRepoMock.
			On("RetrieveByOriginalURL", context.Background(), "https://example.com").
			Once().
			Return(nil, entity.ErrURLNotFound)
		suite.urlRepoMock.
			On("Save", context.Background(), mock.Anything, "https://example.com", mock.AnythingOfType("time.Time")).
			Once().
			Return(nil, suite.errUnknown)

		url, created, err := suite.uc.ShortenURL(context.Background(), "https://example.com")

		suite.Error(err)
		suite.ErrorIs(err, suite.errUnknown)
		suite.False(created)
		suite.Nil(url)
	})

	suite.Run("success", func() {
		suite.urlRepoMock.
			On("RetrieveByOriginalURL", context.Background(), "https://example.com").
			Once().
			Return(nil, entity.ErrURLNotFound)
		suite.urlRepoMock.
			On("Save", context.Background(), mock.Anything, "https://example.com", mock.AnythingOfType("time.Time")).
			Once().
			Return(func(_ context.Context, shortCode, originalURL string, expiresAt time.Time) *entity.URL {
				return &entity.URL{
					ShortCode:   shortCode,
					OriginalURL: originalURL,
					ExpiresAt:   expiresAt,
				}
			}, nil)

		url, created, err := suite.uc.ShortenURL(context.Background(), "https://example.com")

		suite.NoError(err)
		suite.True(created)
		suite.NotNil(url)
		suite.Len(url.ShortCode, 7)
		suite.Equal("https://example.com", url.OriginalURL)
		suite.WithinDuration(time.Now().Add(30*24*time.Hour), url.ExpiresAt, time.Minute)
		suite.Zero(url.Clicks)
	})
}

func (suite *URLUseCaseTestSuite) TestResolveShortCode() {
	suite.Run("url not found", func() {
		suite.urlRepoMock.
			On("RetrieveByShortCode", context.Background(), "abc1234").
			Once().
			Return(nil, entity.ErrURLNotFound)

		url, err := suite.uc.ResolveShortCode(context.Background(), "abc1234", entity.Visitor{})

		suite.Error(err)
		suite.ErrorIs(err, entity.ErrURLNotFound)
		suite.Nil(url)
	})

	suite.Run("expired url is removed", func() {
		suite.urlRepoMock.
			On("RetrieveByShortCode", context.Background(), "abc1234").
			Once().
			Return(&entity.URL{
				ShortCode:   "abc1234",
				OriginalURL: "https://example.com",
				ExpiresAt:   time.Now().Add(-time.Hour),
			}, nil)
		suite.urlRepoMock.
			On("Remove", context.Background(), "abc1234").
			Once().
			Return(nil)

		url, err := suite.uc.ResolveShortCode(context.Background(), "abc1234", entity.Visitor{})

		suite.Error(err)
		suite.ErrorIs(err, entity.ErrURLExpired)
		suite.Nil(url)
	})

	suite.Run("expired url reported even when removal fails", func() {
		suite.urlRepoMock.
			On("RetrieveByShortCode", context.Background(), "abc1234").
			Once().
			Return(&entity.URL{
				ShortCode:   "abc1234",
				OriginalURL: "https://example.com",
				ExpiresAt:   time.Now().Add(-time.Hour),
			}, nil)
		suite.urlRepoMock.
			On("Remove", context.Background(), "abc1234").
			Once().
			Return(suite.errUnknown)

		url, err := suite.uc.ResolveShortCode(context.Background(), "abc1234", entity.Visitor{})

		suite.Error(err)
		suite.ErrorIs(err, entity.ErrURLExpired)
		suite.ErrorIs(err, suite.errUnknown)
		suite.Nil(url)
	})

	suite.Run("click defaults applied", func() {
		suite.urlRepoMock.
			On("RetrieveByShortCode", context.Background(), "abc1234").
			Once().
			Return(&entity.URL{
				ShortCode:   "abc1234",
				OriginalURL: "https://example.com",
				ExpiresAt:   time.Now().Add(time.Hour),
			}, nil)
		suite.urlRepoMock.
			On("RecordClick", context.Background(), "abc1234", mock.MatchedBy(func(click entity.ClickEvent) bool {
				return click.IP == entity.UnknownIP &&
					click.UserAgent == entity.UnknownUserAgent &&
					click.Referrer == entity.DirectReferrer &&
					!click.Timestamp.IsZero()
			})).
			Once().
			Return(&entity.URL{
				ShortCode:   "abc1234",
				OriginalURL: "https://example.com",
				Clicks:      1,
			}, nil)

		url, err := suite.uc.ResolveShortCode(context.Background(), "abc1234", entity.Visitor{})

		suite.NoError(err)
		suite.NotNil(url)
		suite.Equal("https://example.com", url.OriginalURL)
		suite.Equal(int64(1), url.Clicks)
	})

	suite.Run("visitor context recorded", func() {
		visitor := entity.Visitor{
			IP:        "203.0.113.7",
			UserAgent: "Mozilla/5.0 (iPhone) Mobile Safari",
			Referrer:  "https://news.example.org",
		}

		suite.urlRepoMock.
			On("RetrieveByShortCode", context.Background(), "abc1234").
			Once().
			Return(&entity.URL{
				ShortCode:   "abc1234",
				OriginalURL: "https://example.com",
				ExpiresAt:   time.Now().Add(time.Hour),
			}, nil)
		suite.urlRepoMock.
			On("RecordClick", context.Background(), "abc1234", mock.MatchedBy(func(click entity.ClickEvent) bool {
				return click.IP == visitor.IP &&
					click.UserAgent == visitor.UserAgent &&
					click.Referrer == visitor.Referrer
			})).
			Once().
			Return(&entity.URL{
				ShortCode:   "abc1234",
				OriginalURL: "https://example.com",
				Clicks:      1,
			}, nil)

		url, err := suite.uc.ResolveShortCode(context.Background(), "abc1234", visitor)

		suite.NoError(err)
		suite.NotNil(url)
	})

	suite.Run("unknown error", func() {
		suite.urlRepoMock.
			On("RetrieveByShortCode", context.Background(), "abc1234").
			Once().
			Return(nil, suite.errUnknown)

		url, err := suite.uc.ResolveShortCode(context.Background(), "abc1234", entity.Visitor{})

		suite.Error(err)
		suite.ErrorIs(err, suite.errUnknown)
		suite.Nil(url)
	})
}

func (suite *URLUseCaseTestSuite) TestGetURLStats() {
	suite.Run("url not found", func() {
		suite.urlRepoMock.
			On("RetrieveByShortCode", context.Background(), "abc1234").
			Once().
			Return(nil, entity.ErrURLNotFound)

		url, err := suite.uc.GetURLStats(context.Background(), "abc1234")

		suite.Error(err)
		suite.ErrorIs(err, entity.ErrURLNotFound)
		suite.Nil(url)
	})

	suite.Run("expired url still returned", func() {
		suite.urlRepoMock.
			On("RetrieveByShortCode", context.Background(), "abc1234").
			Once().
			Return(&entity.URL{
				ShortCode:   "abc1234",
				OriginalURL: "https://example.com",
				Clicks:      2,
				ExpiresAt:   time.Now().Add(-time.Hour),
			}, nil)

		url, err := suite.uc.GetURLStats(context.Background(), "abc1234")

		suite.NoError(err)
		suite.NotNil(url)
		suite.Equal(int64(2), url.Clicks)
	})

	suite.Run("success", func() {
		suite.urlRepoMock.
			On("RetrieveByShortCode", context.Background(), "abc1234").
			Once().
			Return(&entity.URL{
				ShortCode:   "abc1234",
				OriginalURL: "https://example.com",
				Clicks:      1,
			}, nil)

		url, err := suite.uc.GetURLStats(context.Background(), "abc1234")

		suite.NoError(err)
		suite.NotNil(url)
		suite.Equal("abc1234", url.ShortCode)
		suite.Equal("https://example.com", url.OriginalURL)
		suite.Equal(int64(1), url.Clicks)
	})
}

func (suite *URLUseCaseTestSuite) TestGetURLAnalytics() {
	suite.Run("url not found", func() {
		suite.urlRepoMock.
			On("RetrieveByShortCode", context.Background(), "abc1234").
			Once().
			Return(nil, entity.ErrURLNotFound)

		summary, err := suite.uc.GetURLAnalytics(context.Background(), "abc1234")

		suite.Error(err)
		suite.ErrorIs(err, entity.ErrURLNotFound)
		suite.Nil(summary)
	})

	suite.Run("success", func() {
		now := time.Now()

		suite.urlRepoMock.
			On("RetrieveByShortCode", context.Background(), "abc1234").
			Once().
			Return(&entity.URL{
				ShortCode:   "abc1234",
				OriginalURL: "https://example.com",
				Clicks:      2,
				ClickEvents: []entity.ClickEvent{
					{Timestamp: now.Add(-time.Hour), UserAgent: "Mozilla/5.0 (iPhone) Mobile Safari", IP: "203.0.113.7", Referrer: "direct"},
					{Timestamp: now.Add(-48 * time.Hour), UserAgent: "Mozilla/5.0 (X11; Linux x86_64)", IP: "unknown", Referrer: "direct"},
				},
			}, nil)

		summary, err := suite.uc.GetURLAnalytics(context.Background(), "abc1234")

		suite.NoError(err)
		suite.NotNil(summary)
		suite.Equal(int64(2), summary.TotalClicks)
		suite.Equal(int64(1), summary.ClicksLast24h)
		suite.Equal(int64(1), summary.Devices["mobile"])
		suite.Equal(int64(1), summary.Devices["desktop"])
		suite.Len(summary.Timeline, 2)
	})
}

func (suite *URLUseCaseTestSuite) TestDeactivateURL() {
	suite.Run("url not found", func() {
		suite.urlRepoMock.
			On("Remove", context.Background(), "abc1234").
			Once().
			Return(entity.ErrURLNotFound)

		err := suite.uc.DeactivateURL(context.Background(), "abc1234")

		suite.Error(err)
		suite.ErrorIs(err, entity.ErrURLNotFound)
	})

	suite.Run("unknown error", func() {
		suite.urlRepoMock.
			On("Remove", context.Background(), "abc1234").
			Once().
			Return(suite.errUnknown)

		err := suite.uc.DeactivateURL(context.Background(), "abc1234")

		suite.Error(err)
		suite.ErrorIs(err, suite.errUnknown)
	})

	suite.Run("success", func() {
		suite.urlRepoMock.
			On("Remove", context.Background(), "abc1234").
			Once().
			Return(nil)

		err := suite.uc.DeactivateURL(context.Background(), "abc1234")

		suite.NoError(err)
	})
}

func TestURLUseCase(t *testing.T) {
	suite.Run(t, new(URLUseCaseTestSuite))
}
