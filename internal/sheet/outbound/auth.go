package outbound

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

//nolint:gochecknoglobals // fixed scope list
var scopes = []string{sheets.SpreadsheetsScope, drive.DriveScope}

var ErrNoCredentials = errors.New("no google credentials configured")

// AuthConfig selects how the service authenticates. The first non-empty
// source wins: CredentialsFile, TokenB64, TokenPath, then application
// default credentials when AllowDefault is set.
type AuthConfig struct {
	// CredentialsFile is a service account key or any credentials JSON
	// understood by application default credentials.
	CredentialsFile string
	// TokenB64 is a stored authorized-user token, base64 encoded.
	TokenB64 string
	// TokenPath points at a stored authorized-user token file.
	TokenPath    string
	AllowDefault bool
}

// userToken is the authorized-user token format written by the Google auth
// libraries: an access token plus what is needed to refresh it.
type userToken struct {
	Token        string    `json:"token"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenURI     string    `json:"token_uri"`
	ClientID     string    `json:"client_id"`
	ClientSecret string    `json:"client_secret"`
	Expiry       time.Time `json:"expiry"`
}

// ClientOption resolves credentials into a client option shared by the
// Sheets and Drive services. No interactive flow is ever started.
func ClientOption(ctx context.Context, cfg AuthConfig) (option.ClientOption, error) {
	switch {
	case cfg.CredentialsFile != "":
		data, err := os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read credentials file: %w", err)
		}
		creds, err := google.CredentialsFromJSON(ctx, data, scopes...)
		if err != nil {
			return nil, fmt.Errorf("parse credentials file: %w", err)
		}
		return option.WithCredentials(creds), nil

	case cfg.TokenB64 != "":
		data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(cfg.TokenB64))
		if err != nil {
			return nil, fmt.Errorf("decode token: %w", err)
		}
		ts, err := userTokenSource(ctx, data)
		if err != nil {
			return nil, err
		}
		return option.WithTokenSource(ts), nil

	case cfg.TokenPath != "":
		data, err := os.ReadFile(cfg.TokenPath)
		if err != nil {
			return nil, fmt.Errorf("read token file: %w", err)
		}
		ts, err := userTokenSource(ctx, data)
		if err != nil {
			return nil, err
		}
		return option.WithTokenSource(ts), nil

	case cfg.AllowDefault:
		creds, err := google.FindDefaultCredentials(ctx, scopes...)
		if err != nil {
			return nil, fmt.Errorf("find default credentials: %w", err)
		}
		return option.WithCredentials(creds), nil
	}

	return nil, ErrNoCredentials
}

func userTokenSource(ctx context.Context, data []byte) (oauth2.TokenSource, error) {
	var tok userToken
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	if tok.RefreshToken == "" {
		return nil, errors.New("parse token: refresh_token is required")
	}

	endpoint := google.Endpoint
	if tok.TokenURI != "" {
		endpoint.TokenURL = tok.TokenURI
	}

	access := tok.Token
	if access == "" {
		access = tok.AccessToken
	}

	conf := &oauth2.Config{
		ClientID:     tok.ClientID,
		ClientSecret: tok.ClientSecret,
		Endpoint:     endpoint,
		Scopes:       scopes,
	}

	return conf.TokenSource(context.WithoutCancel(ctx), &oauth2.Token{
		AccessToken:  access,
		RefreshToken: tok.RefreshToken,
		TokenType:    "Bearer",
		Expiry:       tok.Expiry,
	}), nil
}

// NewServices builds the Sheets and Drive services over the same options.
func NewServices(ctx context.Context, opts ...option.ClientOption) (*sheets.Service, *drive.Service, error) {
	sheetsSvc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("sheets service: %w", err)
	}

	driveSvc, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("drive service: %w", err)
	}

	return sheetsSvc, driveSvc, nil
}
