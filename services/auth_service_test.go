package services

import (
	"chat-rooms/auth"
	"chat-rooms/errors"
	"chat-rooms/mocks"
	"chat-rooms/repositories"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

const testTokenDuration = time.Hour

func Test_Register_HashesPasswordAndReturnsToken(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockIUserRepository(ctrl)

	var storedHash string
	repo.EXPECT().
		CreateUser("alice@example.com", gomock.Any()).
		DoAndReturn(func(_, hashedPassword string) (string, error) {
			storedHash = hashedPassword
			return "user-1", nil
		})

	service := NewAuthService(repo, testTokenDuration)
	token, err := service.Register("alice@example.com", "Str0ng&LongPassw0rd")
	req.NoError(err)
	req.NotEmpty(token)

	// The repository never sees the plain password.
	req.NotEqual("Str0ng&LongPassw0rd", storedHash)
	match, err := auth.ComparePassword("Str0ng&LongPassw0rd", storedHash)
	req.NoError(err)
	req.True(match)

	claims, err := auth.ValidateToken(string(token))
	req.NoError(err)
	req.Equal("user-1", claims.UserID)
}

func Test_Register_WeakPasswordNeverReachesRepository(t *testing.T) {
	req := require.New(t)
	repo := mocks.NewMockIUserRepository(gomock.NewController(t))

	service := NewAuthService(repo, testTokenDuration)
	_, err := service.Register("alice@example.com", "short")
	req.ErrorIs(err, errors.ErrInvalidPassword)
}

func Test_Register_PropagatesDuplicateUser(t *testing.T) {
	req := require.New(t)
	repo := mocks.NewMockIUserRepository(gomock.NewController(t))
	repo.EXPECT().
		CreateUser(gomock.Any(), gomock.Any()).
		Return("", errors.ErrUserAlreadyExists)

	service := NewAuthService(repo, testTokenDuration)
	_, err := service.Register("alice@example.com", "Str0ng&LongPassw0rd")
	req.ErrorIs(err, errors.ErrUserAlreadyExists)
}

func Test_Login_WrongPasswordAndUnknownUserLookTheSame(t *testing.T) {
	req := require.New(t)
	repo := mocks.NewMockIUserRepository(gomock.NewController(t))

	hash, err := auth.HashPassword("Str0ng&LongPassw0rd")
	req.NoError(err)

	repo.EXPECT().
		GetUserByEmail("alice@example.com").
		Return(repositories.User{ID: "user-1", PasswordHash: hash, Roles: []string{"user"}}, nil)
	repo.EXPECT().
		GetUserByEmail("ghost@example.com").
		Return(repositories.User{}, errors.ErrInvalidCredentials)

	service := NewAuthService(repo, testTokenDuration)

	_, errWrongPassword := service.Login("alice@example.com", "not-the-password")
	_, errUnknownUser := service.Login("ghost@example.com", "whatever")

	req.ErrorIs(errWrongPassword, errors.ErrInvalidCredentials)
	req.Equal(errWrongPassword, errUnknownUser)
}

func Test_Login_ValidCredentialsCarryRoles(t *testing.T) {
	req := require.New(t)
	repo := mocks.NewMockIUserRepository(gomock.NewController(t))

	hash, err := auth.HashPassword("Str0ng&LongPassw0rd")
	req.NoError(err)
	repo.EXPECT().
		GetUserByEmail("admin@example.com").
		Return(repositories.User{ID: "user-2", PasswordHash: hash, Roles: []string{"user", "admin"}}, nil)

	service := NewAuthService(repo, testTokenDuration)
	token, err := service.Login("admin@example.com", "Str0ng&LongPassw0rd")
	req.NoError(err)

	claims, err := auth.ValidateToken(string(token))
	req.NoError(err)
	req.Equal([]string{"user", "admin"}, claims.Roles)
}
