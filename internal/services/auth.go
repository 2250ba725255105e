package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/yungbote/landcontract-backend/internal/data/kv"
	domainagg "github.com/yungbote/landcontract-backend/internal/domain/aggregates"
	"github.com/yungbote/landcontract-backend/internal/domain/user"
	"github.com/yungbote/landcontract-backend/internal/observability"
	"github.com/yungbote/landcontract-backend/internal/platform/ctxutil"
	"github.com/yungbote/landcontract-backend/internal/platform/logger"
)

// UserFinder is the slice of the contract ledger the auth service reads.
type UserFinder interface {
	FindUser(username string) (user.User, bool)
}

type Session struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	User      user.Public `json:"user"`
}

type AuthService interface {
	// Authenticate checks a username and secret against the stored users.
	Authenticate(ctx context.Context, username, password string) (user.User, error)
	Login(ctx context.Context, username, password string) (*Session, error)
	Logout(ctx context.Context) error
	SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
	CurrentUser(ctx context.Context) (user.Public, error)

	// Local sessions back the operator CLI under the fixed currentUser key.
	LoginLocal(ctx context.Context, username, password string) (user.Public, error)
	LogoutLocal(ctx context.Context) error
	WithLocalUser(ctx context.Context) (context.Context, error)

	GetSessionTTL() time.Duration
}

type authService struct {
	log          *logger.Logger
	users        UserFinder
	sessions     kv.Store
	metrics      *observability.Metrics
	jwtSecretKey string
	sessionTTL   time.Duration
	now          func() time.Time
}

type JWTClaims struct {
	Username string    `json:"username"`
	Role     user.Role `json:"role"`
	jwt.RegisteredClaims
}

func NewAuthService(
	log *logger.Logger,
	users UserFinder,
	sessions kv.Store,
	metrics *observability.Metrics,
	jwtSecretKey string,
	sessionTTL time.Duration,
) AuthService {
	serviceLog := log.With("service", "AuthService")
	if sessionTTL <= 0 {
		sessionTTL = 12 * time.Hour
	}
	return &authService{
		log:          serviceLog,
		users:        users,
		sessions:     sessions,
		metrics:      metrics,
		jwtSecretKey: jwtSecretKey,
		sessionTTL:   sessionTTL,
		now:          time.Now,
	}
}

func (as *authService) GetSessionTTL() time.Duration { return as.sessionTTL }

func unauthorized(op, msg string) error {
	return domainagg.NewError(domainagg.CodeUnauthorized, op, msg, nil)
}

func (as *authService) Authenticate(ctx context.Context, username, password string) (user.User, error) {
	username = user.NormalizeUsername(username)
	if username == "" || password == "" {
		as.metrics.IncAuthAttempt("invalid")
		return user.User{}, domainagg.NewError(domainagg.CodeValidation, "auth.login", "username and password are required", nil)
	}
	u, ok := as.users.FindUser(username)
	if !ok || !secretMatches(u, password) {
		as.metrics.IncAuthAttempt("rejected")
		as.log.Warn("login rejected", "username", username)
		return user.User{}, unauthorized("auth.login", "invalid username or password")
	}
	as.metrics.IncAuthAttempt("accepted")
	return u, nil
}

// secretMatches accepts bcrypt hashes and plaintext secrets carried by
// restored documents.
func secretMatches(u user.User, password string) bool {
	if u.HasHashedSecret() {
		return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(u.Password), []byte(password)) == 1
}

func (as *authService) Login(ctx context.Context, username, password string) (*Session, error) {
	u, err := as.Authenticate(ctx, username, password)
	if err != nil {
		return nil, err
	}
	sessionID := uuid.New().String()
	now := as.now()
	expiresAt := now.Add(as.sessionTTL)
	claims := JWTClaims{
		Username: u.Username,
		Role:     u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        sessionID,
			Subject:   strconv.FormatInt(u.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(as.jwtSecretKey))
	if err != nil {
		return nil, domainagg.Wrap(domainagg.CodeInternal, "auth.login", err)
	}
	public := u.Public()
	if err := kv.PutJSON(ctx, as.sessions, kv.SessionKey(sessionID), public, as.sessionTTL); err != nil {
		as.log.Error("failed to cache session", "session_id", sessionID, "error", err)
		return nil, domainagg.Wrap(domainagg.CodePersistence, "auth.login", err)
	}
	as.log.Info("user logged in", "username", u.Username, "session_id", sessionID)
	return &Session{Token: token, ExpiresAt: expiresAt, User: public}, nil
}

func (as *authService) Logout(ctx context.Context) error {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.SessionID == "" {
		return unauthorized("auth.logout", "not signed in")
	}
	if err := as.sessions.Delete(ctx, kv.SessionKey(rd.SessionID)); err != nil {
		return domainagg.Wrap(domainagg.CodePersistence, "auth.logout", err)
	}
	return nil
}

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
	claims := &JWTClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(as.jwtSecretKey), nil
	}, jwt.WithTimeFunc(as.now))
	if err != nil || !token.Valid {
		return nil, unauthorized("auth.token", "invalid or expired token")
	}
	if claims.ID == "" {
		return nil, unauthorized("auth.token", "token has no session")
	}
	key := kv.SessionKey(claims.ID)
	var cached user.Public
	found, err := kv.GetJSON(ctx, as.sessions, key, &cached)
	if err != nil {
		return nil, domainagg.Wrap(domainagg.CodePersistence, "auth.token", err)
	}
	if !found {
		return nil, unauthorized("auth.token", "session expired or logged out")
	}
	current, err := as.revalidate(ctx, key, cached)
	if err != nil {
		return nil, err
	}
	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{
		UserID:    current.ID,
		Username:  current.Username,
		Role:      string(current.Role),
		SessionID: claims.ID,
		Token:     tokenString,
	}), nil
}

// revalidate drops a cached session whose user no longer exists in the
// ledger, for instance after a restore.
func (as *authService) revalidate(ctx context.Context, key string, cached user.Public) (user.Public, error) {
	u, ok := as.users.FindUser(cached.Username)
	if ok && u.ID == cached.ID {
		return u.Public(), nil
	}
	if err := as.sessions.Delete(ctx, key); err != nil {
		as.log.Warn("failed to drop stale session", "key", key, "error", err)
	}
	as.log.Info("dropped stale session", "username", cached.Username)
	return user.Public{}, unauthorized("auth.session", "user no longer exists")
}

func (as *authService) CurrentUser(ctx context.Context) (user.Public, error) {
	rd := ctxutil.GetRequestData(ctx)
	if rd == nil || rd.Username == "" {
		return user.Public{}, unauthorized("auth.me", "not signed in")
	}
	u, ok := as.users.FindUser(rd.Username)
	if !ok {
		return user.Public{}, unauthorized("auth.me", "user no longer exists")
	}
	return u.Public(), nil
}

func (as *authService) LoginLocal(ctx context.Context, username, password string) (user.Public, error) {
	u, err := as.Authenticate(ctx, username, password)
	if err != nil {
		return user.Public{}, err
	}
	public := u.Public()
	if err := kv.PutJSON(ctx, as.sessions, kv.KeyCurrentUser, public, 0); err != nil {
		return user.Public{}, domainagg.Wrap(domainagg.CodePersistence, "auth.login", err)
	}
	return public, nil
}

func (as *authService) LogoutLocal(ctx context.Context) error {
	if err := as.sessions.Delete(ctx, kv.KeyCurrentUser); err != nil {
		return domainagg.Wrap(domainagg.CodePersistence, "auth.logout", err)
	}
	return nil
}

func (as *authService) WithLocalUser(ctx context.Context) (context.Context, error) {
	var cached user.Public
	found, err := kv.GetJSON(ctx, as.sessions, kv.KeyCurrentUser, &cached)
	if err != nil {
		return nil, domainagg.Wrap(domainagg.CodePersistence, "auth.local", err)
	}
	if !found {
		return nil, unauthorized("auth.local", "not signed in, run login first")
	}
	current, err := as.revalidate(ctx, kv.KeyCurrentUser, cached)
	if err != nil {
		return nil, err
	}
	return ctxutil.WithRequestData(ctx, &ctxutil.RequestData{
		UserID:   current.ID,
		Username: current.Username,
		Role:     string(current.Role),
	}), nil
}
