package tokens

import (
	"context"

	"github.com/pkg/errors"
	"golang.org/x/oauth2"
)

// LoadCredentials returns the persisted bearer token and refresh token, if
// any. A nil token and nil error are returned when no access token has been
// persisted.
func LoadCredentials(ctx context.Context, store Store) (*oauth2.Token, error) {
	accessToken, ok, err := store.Get(ctx, AccessTokenKey)
	if err != nil {
		return nil, errors.Wrap(err, "error reading access token")
	}
	if !ok || accessToken == "" {
		return nil, nil
	}
	refreshToken, _, err := store.Get(ctx, RefreshTokenKey)
	if err != nil {
		return nil, errors.Wrap(err, "error reading refresh token")
	}
	return &oauth2.Token{
		AccessToken:  accessToken,
		TokenType:    "Bearer",
		RefreshToken: refreshToken,
	}, nil
}

// SaveCredentials persists the given token. A token without a refresh token
// removes any previously persisted refresh token.
func SaveCredentials(
	ctx context.Context,
	store Store,
	token *oauth2.Token,
) error {
	if token == nil || token.AccessToken == "" {
		return errors.New("refusing to persist an empty access token")
	}
	if err := store.Set(ctx, AccessTokenKey, token.AccessToken); err != nil {
		return errors.Wrap(err, "error persisting access token")
	}
	if token.RefreshToken == "" {
		if err := store.Delete(ctx, RefreshTokenKey); err != nil {
			return errors.Wrap(err, "error removing stale refresh token")
		}
		return nil
	}
	if err := store.Set(ctx, RefreshTokenKey, token.RefreshToken); err != nil {
		return errors.Wrap(err, "error persisting refresh token")
	}
	return nil
}

// PurgeCredentials removes both the access token and the refresh token.
func PurgeCredentials(ctx context.Context, store Store) error {
	return errors.Wrap(
		store.Delete(ctx, AccessTokenKey, RefreshTokenKey),
		"error purging credentials",
	)
}
