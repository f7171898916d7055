// README: Firebase Admin SDK initialisation; provides the optional auth capability.
package infra

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"freightquote/internal/auth"
)

// tokenClient is the part of *fbauth.Client the provider needs.
type tokenClient interface {
	VerifyIDToken(ctx context.Context, idToken string) (*fbauth.Token, error)
	RevokeRefreshTokens(ctx context.Context, uid string) error
}

// firebaseProvider is the production auth.Provider backed by the Firebase Admin SDK.
type firebaseProvider struct {
	client tokenClient
}

// NewFirebaseProvider creates an auth.Provider using the Firebase Admin SDK.
// If credentialsFile is non-empty it is used as the service-account JSON path;
// otherwise application-default credentials / GOOGLE_APPLICATION_CREDENTIALS are used.
func NewFirebaseProvider(ctx context.Context, projectID, credentialsFile string) (auth.Provider, error) {
	opts := []option.ClientOption{}
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("firebase.NewApp: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("firebase app.Auth: %w", err)
	}
	return &firebaseProvider{client: client}, nil
}

func (p *firebaseProvider) Identify(ctx context.Context, idToken string) (auth.Identity, error) {
	token, err := p.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		return auth.Identity{}, err
	}
	id := auth.Identity{UID: token.UID}
	if email, ok := token.Claims["email"].(string); ok {
		id.Display = email
	}
	return id, nil
}

func (p *firebaseProvider) SignOut(ctx context.Context, uid string) error {
	return p.client.RevokeRefreshTokens(ctx, uid)
}
