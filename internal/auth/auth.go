// README: Optional authentication capability: Firebase-backed or demo mode.
package auth

import (
	"context"
	"errors"
)

var (
	ErrUnauthenticated = errors.New("authentication required")
	ErrInvalidToken    = errors.New("invalid token")
)

const (
	DemoDisplay    = "Modo Demo"
	msgDemoSignOut = "Logout não disponível - modo standalone"
	msgSignedOut   = "Logout realizado com sucesso!"
	msgAlreadyOut  = "Nenhum usuário autenticado"
)

// Identity is attached to every request, authenticated or not.
type Identity struct {
	UID     string `json:"uid,omitempty"`
	Display string `json:"display"`
	Demo    bool   `json:"demo"`
}

func DemoIdentity() Identity {
	return Identity{Display: DemoDisplay, Demo: true}
}

// Provider verifies ID tokens and signs users out.
type Provider interface {
	Identify(ctx context.Context, idToken string) (Identity, error)
	SignOut(ctx context.Context, uid string) error
}

// Capability is either Firebase or Demo.
type Capability interface {
	isCapability()
}

// Firebase is the capability backed by a configured identity provider.
type Firebase struct {
	Provider Provider
}

// Demo is the standalone mode: everyone is the demo identity.
type Demo struct{}

func (Firebase) isCapability() {}
func (Demo) isCapability()     {}

// Name is reported by the session endpoint.
func Name(c Capability) string {
	switch c.(type) {
	case Firebase:
		return "firebase"
	default:
		return "demo"
	}
}

// Authenticate resolves the caller. A missing token yields the demo identity unless required is set.
func Authenticate(ctx context.Context, c Capability, idToken string, required bool) (Identity, error) {
	fb, ok := c.(Firebase)
	if !ok || fb.Provider == nil {
		return DemoIdentity(), nil
	}
	if idToken == "" {
		if required {
			return Identity{}, ErrUnauthenticated
		}
		return DemoIdentity(), nil
	}
	id, err := fb.Provider.Identify(ctx, idToken)
	if err != nil {
		return Identity{}, errors.Join(ErrInvalidToken, err)
	}
	if id.Display == "" {
		id.Display = id.UID
	}
	return id, nil
}

// SignOut ends the caller's session and returns the message shown to the user.
// In demo mode it reports that logout is unavailable without failing.
func SignOut(ctx context.Context, c Capability, id Identity) (string, error) {
	fb, ok := c.(Firebase)
	if !ok || fb.Provider == nil {
		return msgDemoSignOut, nil
	}
	if id.Demo || id.UID == "" {
		return msgAlreadyOut, nil
	}
	if err := fb.Provider.SignOut(ctx, id.UID); err != nil {
		return "", err
	}
	return msgSignedOut, nil
}
