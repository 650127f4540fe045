package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
	"log/slog"
	"net/http"
	"regexp"
	"repair-ticket/common"
	"repair-ticket/common/constant"
	"repair-ticket/common/contract"
	"repair-ticket/common/errs"
	"repair-ticket/common/otel"
	"repair-ticket/model"
	"repair-ticket/outbound/line"
	"repair-ticket/outbound/sqlgen"
	"strings"
	"time"
)

const defaultBcryptCost = 12

var phonePattern = regexp.MustCompile(`^[+]?[0-9-()\s]{10,15}$`)

type sessionCtxKey struct{}

func sessionFromContext(ctx context.Context) (model.Session, bool) {
	session, ok := ctx.Value(sessionCtxKey{}).(model.Session)
	return session, ok
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	token = strings.TrimSpace(token)
	return token, ok && token != ""
}

// SessionStore keeps login sessions in redis under session:<token>.
type SessionStore struct {
	Cache *redis.Client
	TTL   time.Duration

	NewToken func() string
	TimeNow  func() time.Time
}

func NewSessionStore(cfg *viper.Viper, cache *redis.Client) *SessionStore {
	ttl := cfg.GetDuration("auth.session_ttl")
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}

	return &SessionStore{
		Cache:    cache,
		TTL:      ttl,
		NewToken: func() string { return ulid.Make().String() },
		TimeNow:  time.Now,
	}
}

func (s *SessionStore) Create(ctx context.Context, session model.Session) (string, time.Time, error) {
	data, err := json.Marshal(session)
	if err != nil {
		return "", time.Time{}, err
	}

	token := s.NewToken()
	if err = s.Cache.Set(ctx, fmt.Sprintf(constant.SessionKey, token), string(data), s.TTL).Err(); err != nil {
		return "", time.Time{}, err
	}

	return token, s.TimeNow().Add(s.TTL), nil
}

func (s *SessionStore) Get(ctx context.Context, token string) (model.Session, error) {
	var session model.Session

	data, err := s.Cache.Get(ctx, fmt.Sprintf(constant.SessionKey, token)).Result()
	if errors.Is(err, redis.Nil) {
		return session, errs.Unauthorized(constant.MsgUnauthorized)
	}
	if err != nil {
		return session, err
	}

	if err = json.Unmarshal([]byte(data), &session); err != nil || session.UserID == "" {
		return session, errs.Unauthorized(constant.MsgUnauthorized)
	}

	return session, nil
}

func (s *SessionStore) Delete(ctx context.Context, token string) error {
	return s.Cache.Del(ctx, fmt.Sprintf(constant.SessionKey, token)).Err()
}

// Require rejects requests without a live bearer session and stores the
// session in the request context.
func (s *SessionStore) Require(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			writeErrorResponse(w, errs.Unauthorized(constant.MsgUnauthorized))
			return
		}

		session, err := s.Get(r.Context(), token)
		if err != nil {
			var httpErr *errs.HttpError
			if !errors.As(err, &httpErr) {
				slog.ErrorContext(r.Context(), "failed to load session", slog.Any(constant.LogFieldErr, err))
			}
			writeErrorResponse(w, err)
			return
		}

		next(w, r.WithContext(context.WithValue(r.Context(), sessionCtxKey{}, session)))
	}
}

type AuthHttp struct {
	Querier   *sqlgen.Queries
	Sessions  *SessionStore
	Publisher contract.Publisher
	Validate  *validator.Validate
	Formatter *line.Formatter

	bcryptCost int
}

func RegisterAuthHttp(
	mux *http.ServeMux,
	cfg *viper.Viper,
	querier *sqlgen.Queries,
	sessions *SessionStore,
	publisher contract.Publisher,
	validate *validator.Validate,
	formatter *line.Formatter,
) *AuthHttp {
	cost := cfg.GetInt("auth.bcrypt_cost")
	if cost < bcrypt.MinCost {
		cost = defaultBcryptCost
	}

	in := &AuthHttp{
		Querier:   querier,
		Sessions:  sessions,
		Publisher: publisher,
		Validate:  validate,
		Formatter: formatter,

		bcryptCost: cost,
	}

	mux.HandleFunc("POST /api/auth/register", in.register)
	mux.HandleFunc("POST /api/auth/login", in.login)
	mux.HandleFunc("POST /api/auth/logout", sessions.Require(in.logout))

	return in
}

func (in AuthHttp) register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, &errs.HttpError{Code: http.StatusBadRequest, Message: "Invalid request"})
		return
	}

	if err := in.validateRegisterRequest(req); err != nil {
		writeErrorResponse(w, err)
		return
	}

	ctx, span := otel.Tracer.Start(r.Context(), "AuthHttp.register")
	defer span.End()

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)
	slog.InfoContext(ctx, "register receive request", slog.String("email", req.Email), traceIdAttr)

	_, err := in.Querier.GetUserByEmail(ctx, req.Email)
	if err == nil {
		writeErrorResponse(w, errs.BadRequest(constant.MsgEmailTaken))
		return
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		slog.ErrorContext(ctx, "failed to get user by email", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		writeErrorResponse(w, err)
		return
	}

	lineUserID := optionalString(req.LineUserId)
	if lineUserID != nil {
		_, err = in.Querier.GetUserByLineUserID(ctx, lineUserID)
		if err == nil {
			writeErrorResponse(w, errs.BadRequest(constant.MsgLineIDTaken))
			return
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			slog.ErrorContext(ctx, "failed to get user by line id", traceIdAttr, slog.Any(constant.LogFieldErr, err))
			writeErrorResponse(w, err)
			return
		}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), in.bcryptCost)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash password", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		writeErrorResponse(w, err)
		return
	}
	password := string(hashed)

	user, err := in.Querier.CreateUser(ctx, sqlgen.CreateUserParams{
		ID:         newID(),
		Email:      req.Email,
		Name:       req.Name,
		Phone:      optionalString(req.Phone),
		Password:   &password,
		Role:       string(model.RoleUser),
		LineUserID: lineUserID,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to create user", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		writeErrorResponse(w, err)
		return
	}

	if lineUserID != nil {
		err = common.PublishMessage(ctx, in.Publisher, constant.SubjectLinePush, model.LinePushEventMessage{
			To:   *lineUserID,
			Text: in.Formatter.Welcome(user.Name),
		})
		if err != nil {
			slog.WarnContext(ctx, "failed to publish welcome message", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		}
	}

	slog.InfoContext(ctx, "register success", traceIdAttr, slog.Any(constant.LogFieldResponse, user.ID))

	writeJSONResponse(w, http.StatusOK, model.RegisterResponse{
		Message: constant.MsgRegisterSuccess,
		User:    user.Response(),
	})
}

func (in AuthHttp) validateRegisterRequest(req model.RegisterRequest) error {
	if req.Email == "" || req.Password == "" || req.Name == "" {
		return errs.BadRequest(constant.MsgRequiredFields)
	}

	if err := in.Validate.Var(req.Email, "email"); err != nil {
		return errs.BadRequest(constant.MsgInvalidEmail)
	}

	if req.Phone != "" && !phonePattern.MatchString(req.Phone) {
		return errs.BadRequest(constant.MsgInvalidPhone)
	}

	return in.Validate.Struct(req)
}

func (in AuthHttp) login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErrorResponse(w, &errs.HttpError{Code: http.StatusBadRequest, Message: "Invalid request"})
		return
	}

	if req.LineUid == "" && (req.Email == "" || req.Password == "") {
		writeErrorResponse(w, errs.BadRequest(constant.MsgRequiredFields))
		return
	}

	if err := in.Validate.Struct(req); err != nil {
		writeErrorResponse(w, err)
		return
	}

	ctx, span := otel.Tracer.Start(r.Context(), "AuthHttp.login")
	defer span.End()

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)
	slog.InfoContext(ctx, "login receive request", slog.String("email", req.Email), slog.Bool("line", req.LineUid != ""), traceIdAttr)

	user, err := in.authenticate(ctx, req)
	if err != nil {
		var httpErr *errs.HttpError
		if !errors.As(err, &httpErr) {
			slog.ErrorContext(ctx, "failed to authenticate", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		}
		writeErrorResponse(w, err)
		return
	}

	token, expiresAt, err := in.Sessions.Create(ctx, model.Session{UserID: user.ID, Role: model.UserRole(user.Role)})
	if err != nil {
		slog.ErrorContext(ctx, "failed to create session", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		writeErrorResponse(w, err)
		return
	}

	slog.InfoContext(ctx, "login success", traceIdAttr, slog.Any(constant.LogFieldResponse, user.ID))

	writeJSONResponse(w, http.StatusOK, model.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user.Response(),
	})
}

// authenticate resolves either the LINE credential or the email and password pair.
func (in AuthHttp) authenticate(ctx context.Context, req model.LoginRequest) (sqlgen.User, error) {
	if req.LineUid != "" {
		user, err := in.Querier.GetUserByLineUserID(ctx, &req.LineUid)
		if errors.Is(err, pgx.ErrNoRows) {
			return user, errs.Unauthorized(constant.MsgUnauthorized)
		}
		return user, err
	}

	user, err := in.Querier.GetUserByEmail(ctx, req.Email)
	if errors.Is(err, pgx.ErrNoRows) {
		return user, errs.Unauthorized(constant.MsgUnauthorized)
	}
	if err != nil {
		return user, err
	}

	if user.Password == nil || bcrypt.CompareHashAndPassword([]byte(*user.Password), []byte(req.Password)) != nil {
		return user, errs.Unauthorized(constant.MsgUnauthorized)
	}

	return user, nil
}

func (in AuthHttp) logout(w http.ResponseWriter, r *http.Request) {
	ctx, span := otel.Tracer.Start(r.Context(), "AuthHttp.logout")
	defer span.End()

	traceIdAttr := common.ExtractTraceIDFromCtx(ctx)

	token, _ := bearerToken(r)
	if err := in.Sessions.Delete(ctx, token); err != nil {
		slog.ErrorContext(ctx, "failed to delete session", traceIdAttr, slog.Any(constant.LogFieldErr, err))
		writeErrorResponse(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, model.SuccessResponse{Success: true, Message: constant.MsgLogoutSuccess})
}
