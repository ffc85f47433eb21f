package firebase

//go:generate go run go.uber.org/mock/mockgen -source=./firebase.go -destination=./mocks/firebase_mock.go -package=mocks

import (
	"context"
	"errors"
	"storeloft/config"
	"storeloft/infras/otel"
	"storeloft/shared/constant"
	"strings"

	firebaseApp "firebase.google.com/go/v4"
	firebaseAuth "firebase.google.com/go/v4/auth"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

const (
	otelScopeName = "firebase"

	emailClaim  = "email"
	bearerParts = 2
)

var (
	ErrInvalidToken = errors.New("invalid identity token")
	ErrMissingToken = errors.New("missing identity token")
)

// Identity is the verified caller extracted from a Firebase ID token.
type Identity struct {
	UserID string
	Email  string
	Role   string
}

type Auth interface {
	VerifyToken(ctx context.Context, idToken string) (Identity, error)
}

type authImpl struct {
	client *firebaseAuth.Client
	cfg    *config.Config
	otel   otel.Otel
}

func New(cfg *config.Config, otl otel.Otel) Auth {
	ctx := context.Background()

	opt := option.WithCredentialsFile(cfg.External.Firebase.CredentialsFile)

	app, err := firebaseApp.NewApp(ctx, nil, opt)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize Firebase app")
	}

	client, err := app.Auth(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize Firebase auth client")
	}

	log.Info().Msg("Firebase auth client initialized")

	return &authImpl{
		client: client,
		cfg:    cfg,
		otel:   otl,
	}
}

func (a *authImpl) VerifyToken(ctx context.Context, idToken string) (identity Identity, err error) {
	ctx, scope := a.otel.NewScope(ctx, otelScopeName, otelScopeName+".VerifyToken")
	defer scope.End()
	defer scope.TraceIfError(err)

	if idToken == constant.Empty {
		return Identity{}, ErrMissingToken
	}

	token, err := a.client.VerifyIDToken(ctx, idToken)
	if err != nil {
		log.Error().Err(err).Msg("failed to verify Firebase ID token")

		return Identity{}, ErrInvalidToken
	}

	identity = Identity{UserID: token.UID}

	if email, ok := token.Claims[emailClaim].(string); ok {
		identity.Email = email
	}

	// Role lives in a custom claim; an account without one gets the least
	// privileged marketplace role.
	if role, ok := token.Claims[a.cfg.External.Firebase.RoleClaim].(string); ok && role != constant.Empty {
		identity.Role = role
	} else {
		identity.Role = constant.RoleRenter
	}

	return identity, nil
}

// ExtractTokenFromHeader pulls the raw ID token out of a Bearer
// authorization header.
func ExtractTokenFromHeader(header string) (string, error) {
	parts := strings.SplitN(header, " ", bearerParts)
	if len(parts) != bearerParts || !strings.EqualFold(parts[0], "Bearer") || parts[1] == constant.Empty {
		return constant.Empty, ErrMissingToken
	}

	return parts[1], nil
}
