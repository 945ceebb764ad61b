package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mikepea/bladetrack/pkg/bladetrack/auth"
	"github.com/mikepea/bladetrack/pkg/bladetrack/database"
	"github.com/mikepea/bladetrack/pkg/bladetrack/logging"
	"github.com/mikepea/bladetrack/pkg/bladetrack/metrics"
	"github.com/mikepea/bladetrack/pkg/bladetrack/oidc"
	"github.com/mikepea/bladetrack/pkg/bladetrack/ratelimit"
	"github.com/mikepea/bladetrack/pkg/bladetrack/server"
)

const minSecretLength = 32

type ServeCmd struct {
	Listen          string        `help:"HTTP listen address" default:"0.0.0.0:8080" env:"BLADETRACK_LISTEN"`
	JWTSecret       string        `help:"secret for signing session tokens" env:"BLADETRACK_JWT_SECRET"`
	TokenTTL        time.Duration `help:"session token lifetime" default:"24h" env:"BLADETRACK_TOKEN_TTL"`
	WebDist         string        `help:"frontend build directory" default:"./web/dist" env:"BLADETRACK_WEB_DIST"`
	ShutdownTimeout time.Duration `help:"grace period for in-flight requests on shutdown" default:"15s" env:"BLADETRACK_SHUTDOWN_TIMEOUT"`
	CORSOrigins     []string      `help:"browser origins allowed to call the API" env:"BLADETRACK_CORS_ORIGINS"`
	AuthRateLimit   int           `help:"sign-in requests per minute per client address, 0 disables" default:"30" env:"BLADETRACK_AUTH_RATE_LIMIT"`
	AuthRateBurst   int           `help:"sign-in requests allowed in a burst" default:"10" env:"BLADETRACK_AUTH_RATE_BURST"`

	Database DatabaseFlags `embed:"" prefix:"db-"`
	OIDC     OIDCFlags     `embed:"" prefix:"oidc-"`
}

// OIDCFlags configure sign-in through an OpenID Connect provider. Sign-in is
// disabled while the issuer is empty.
type OIDCFlags struct {
	Issuer        string   `help:"OpenID Connect issuer URL" env:"BLADETRACK_OIDC_ISSUER"`
	ClientID      string   `help:"OAuth2 client id" env:"BLADETRACK_OIDC_CLIENT_ID"`
	ClientSecret  string   `help:"OAuth2 client secret" env:"BLADETRACK_OIDC_CLIENT_SECRET"`
	BaseURL       string   `help:"externally visible server URL used for the callback" env:"BLADETRACK_OIDC_BASE_URL"`
	Scopes        []string `help:"requested scopes" default:"openid,profile,email" env:"BLADETRACK_OIDC_SCOPES"`
	OrgClaim      string   `help:"ID token claim with the organization external id" default:"org_id" env:"BLADETRACK_OIDC_ORG_CLAIM"`
	RoleClaim     string   `help:"ID token claim with the organization role" default:"org_role" env:"BLADETRACK_OIDC_ROLE_CLAIM"`
	AutoProvision bool     `help:"create users on first sign-in" default:"true" negatable:"" env:"BLADETRACK_OIDC_AUTO_PROVISION"`
}

func (o *OIDCFlags) enabled() bool {
	return o.Issuer != ""
}

func (o *OIDCFlags) Validate() error {
	if !o.enabled() {
		return nil
	}
	if o.ClientID == "" {
		return errors.New("OIDC client id is required when an issuer is set (--oidc-client-id)")
	}
	u, err := url.Parse(o.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.New("OIDC base URL must be an absolute URL (--oidc-base-url)")
	}
	return nil
}

func (o *OIDCFlags) config() oidc.Config {
	return oidc.Config{
		Issuer:        o.Issuer,
		ClientID:      o.ClientID,
		ClientSecret:  o.ClientSecret,
		BaseURL:       o.BaseURL,
		Scopes:        o.Scopes,
		OrgClaim:      o.OrgClaim,
		RoleClaim:     o.RoleClaim,
		AutoProvision: o.AutoProvision,
	}
}

func (s *ServeCmd) Validate() error {
	if s.TokenTTL <= 0 {
		return errors.New("token TTL must be positive (--token-ttl or BLADETRACK_TOKEN_TTL)")
	}
	if s.AuthRateLimit < 0 || s.AuthRateBurst < 1 {
		return errors.New("auth rate limit must be >= 0 and burst >= 1 (--auth-rate-limit, --auth-rate-burst)")
	}
	if err := s.Database.Validate(); err != nil {
		return err
	}
	return s.OIDC.Validate()
}

// secret returns the signing secret. Dev mode tolerates a short or missing
// secret; otherwise it must be at least 32 bytes for HMAC-SHA256.
func (s *ServeCmd) secret(dev bool) ([]byte, error) {
	if len(s.JWTSecret) >= minSecretLength {
		return []byte(s.JWTSecret), nil
	}
	if !dev {
		return nil, fmt.Errorf("JWT secret must be at least %d bytes (--jwt-secret or BLADETRACK_JWT_SECRET)", minSecretLength)
	}
	if s.JWTSecret == "" {
		return []byte("bladetrack-development-secret-do-not-use"), nil
	}
	return []byte(s.JWTSecret), nil
}

func (s *ServeCmd) Run(ctx context.Context, globals *Globals) error {
	log := logging.Setup(globals.Dev)
	log.Info().Str("version", globals.Version).Bool("dev", globals.Dev).Msg("Starting bladetrack server")

	secret, err := s.secret(globals.Dev)
	if err != nil {
		return err
	}
	if globals.Dev && len(s.JWTSecret) < minSecretLength {
		log.Warn().Msg("using a weak JWT secret, development only")
	}

	if !globals.Dev {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := s.Database.open(ctx, log)
	if err != nil {
		return err
	}
	defer database.Close(db)

	tokens := auth.NewTokens(secret, s.TokenTTL)

	var signIn *oidc.Handler
	if s.OIDC.enabled() {
		signIn, err = oidc.NewHandler(ctx, db, tokens, s.OIDC.config())
		if err != nil {
			return err
		}
		log.Info().Str("issuer", s.OIDC.Issuer).Msg("OIDC sign-in enabled")
	}

	var authLimit *ratelimit.Limiter
	if s.AuthRateLimit > 0 {
		authLimit = ratelimit.New(s.AuthRateLimit, s.AuthRateBurst)
	}

	router := server.New(server.Config{
		DB:          db,
		Tokens:      tokens,
		Logger:      log,
		Metrics:     metrics.New(),
		WebDist:     s.WebDist,
		OIDC:        signIn,
		AuthLimiter: authLimit,
	})

	srv := configureHTTPServer(s.Listen, server.WithCORS(s.CORSOrigins, server.WithCompression(router)))
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("listen", s.Listen).Msg("Listening for HTTP connections")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
