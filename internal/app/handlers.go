package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/aph138/phoneuser/internal/cache"
	"github.com/aph138/phoneuser/internal/db"
	"github.com/aph138/phoneuser/internal/entity"
	"github.com/aph138/phoneuser/pkg/authentication"
)

//	@Title			phoneuser swagger API
//	@Version		0.1
//	@Description	Users keyed by phone number with OTP login
//
// @Host		localhost:9000
// @BasePath	/
//
// @securityDefinitions.apikey	BearerAuth
// @in							header
// @name						Authorization
type SearchResponse struct {
	Code   int           `json:"code"`
	Result []entity.User `json:"result"`
}

// CreateUserRequest uses a pointer so a missing phone and an empty one are both caught.
type CreateUserRequest struct {
	Phone   *string        `json:"phone" example:"+11234567890"`
	Profile map[string]any `json:"profile,omitempty"`
}
type LoginRequest struct {
	Phone string `json:"phone" example:"09012345678"`
}
type CheckRequest struct {
	Phone string `json:"phone" example:"09012345678"`
	Code  string `json:"code" example:"123456"`
}

type claimsKey struct{}

// ClaimsFromContext returns the claims AuthMiddleware stored for the request.
func ClaimsFromContext(ctx context.Context) (*authentication.Claims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*authentication.Claims)
	return claims, ok
}

// decode reads a single JSON object and rejects unknown fields.
func decode(r *http.Request, v any) error {
	reqDecoder := json.NewDecoder(r.Body)
	reqDecoder.DisallowUnknownFields() // for strict validation
	return reqDecoder.Decode(v)
}

func (a *Application) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		a.logger.Error("err when encoding response " + err.Error())
	}
}

// @Summary		Create user
// @Description	Creates a user. The phone number must be an optional plus followed by 10 to 15 digits and must not be taken.
// @Tags			user
// @Accept			json
// @Produce		json
// @Param			request	body		CreateUserRequest	true	"phone number and optional profile"
// @Success		201		{object}	entity.User
// @Failure		400		{string}	string	"missing or invalid phone number"
// @Failure		409		{string}	string	"phone number already exists"
// @Router			/users [post]
func (a *Application) CreateUserHandler(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	// an empty body is a request without a phone number
	if err := decode(r, &req); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	var phone string
	if req.Phone != nil {
		phone = *req.Phone
	}

	user, err := a.db.InsertUser(r.Context(), entity.User{Phone: phone, Profile: req.Profile})
	if err != nil {
		switch {
		case entity.IsValidationError(err):
			http.Error(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, db.ErrDuplicateKey):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			a.logger.Error(fmt.Sprintf("err when inserting user at /users: %s", err.Error()))
			http.Error(w, "something went wrong, try again later", http.StatusInternalServerError)
		}
		return
	}
	a.writeJSON(w, http.StatusCreated, user)
}

// @Summary		Get user
// @Description	Returns the user with the given phone number
// @Tags			user
// @Produce		json
// @Param			phone	path		string	true	"phone number"	example(+11234567890)
// @Success		200		{object}	entity.User
// @Failure		400		{string}	string	"invalid phone number"
// @Failure		404		{string}	string	"user not found"
// @Router			/users/{phone} [get]
func (a *Application) GetUserHandler(w http.ResponseWriter, r *http.Request) {
	phone, err := entity.ValidatePhone(r.PathValue("phone"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	user, err := a.db.FindUserByPhone(r.Context(), phone)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		a.logger.Error(fmt.Sprintf("err when finding user at /users/{phone}: %s", err.Error()))
		http.Error(w, "something went wrong, try again later", http.StatusInternalServerError)
		return
	}
	a.writeJSON(w, http.StatusOK, user)
}

// @Summary		Login endpoint
// @Description	Accepts a phone number and create an OTP code if the phone number is valid and no OTP code is currently valid that number.
// @Tags			login
// @Accept			json
// @Param			request	body	LoginRequest	true	"valid phone number as string"
// @Success		201		"No Content"
// @Failure		400		{string}	string	"invalid phone number"
// @Failure		429		{string}	string	"a code is still valid"
// @Router			/login [post]
func (a *Application) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decode(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	phone, err := entity.ValidatePhone(req.Phone)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	code, err := a.cache.NewOTPCode(r.Context(), phone)
	if err != nil {
		if errors.Is(err, cache.ErrOTPStillValid) {
			http.Error(w, "You still have a valid code. Please try again later.", http.StatusTooManyRequests)
			return
		}
		a.logger.Error(fmt.Sprintf("err when generating OTP code: %s", err.Error()))
		http.Error(w, "Something went wrong. Please contact support team.", http.StatusInternalServerError)
		return
	}
	// no sms gateway is wired, the code only reaches the log
	a.logger.Info("otp code issued", "phone", phone, "code", code)
	w.Header().Add("Content-Type", "text/plain")
	w.WriteHeader(http.StatusCreated)
}

// @Summary		check endpoint
// @Description	Accepts a phone number and an OTP code and return JWT token if they are valid
// @Tags			login
// @Accept			json
// @Produce		plain
// @Param			request	body		CheckRequest	true	"valid phone number and code"
// @Success		200		{string}	string			"JWT containing user ID"
// @Failure		401		{string}	string	"invalid code"
// @Failure		429		{string}	string	"rate limit exceeded"
// @Router			/check [post]
func (a *Application) CheckHandler(w http.ResponseWriter, r *http.Request) {
	var req CheckRequest
	if err := decode(r, &req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	phone, err := entity.ValidatePhone(req.Phone)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Code == "" {
		http.Error(w, "Please provide the code", http.StatusBadRequest)
		return
	}

	if err := a.cache.VerifyOTPCode(r.Context(), phone, req.Code); err != nil {
		switch {
		case errors.Is(err, cache.ErrRateLimit):
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
		case errors.Is(err, cache.ErrInvalidCode):
			http.Error(w, "invalid code", http.StatusUnauthorized)
		default:
			a.logger.Error(fmt.Sprintf("err when verifying OTP code: %s", err.Error()))
			http.Error(w, "something went wrong, try again later", http.StatusInternalServerError)
		}
		return
	}

	// saving user in db if no records exist
	userID, err := a.db.SaveUser(r.Context(), phone)
	if err != nil {
		a.logger.Error(fmt.Sprintf("err when saving user at /check: %s", err.Error()))
		http.Error(w, "something went wrong, try again later", http.StatusInternalServerError)
		return
	}

	token, err := a.jwt.NewToken(userID, phone, a.tokenTTL)
	if err != nil {
		a.logger.Error(fmt.Sprintf("err when generating new JWT token: %s", err.Error()))
		http.Error(w, "something went wrong, try again later", http.StatusInternalServerError)
		return
	}
	w.Header().Add("Content-Type", "text/plain")
	fmt.Fprint(w, token)
}

// @Summary		Search for user
// @Description	Retrieve users
// @Produce		json
// @Tags			user
// @Security		BearerAuth
// @Param			phone		query		string	false	"A valid phone number for searching a specific user. A leading plus may be sent as + or %2B."																example(09012345678)
// @Param			register	query		string	false	"A date range to search for users who registered within that period in YYYY-MM-DD format, separated by a comma."	example(2024-01-01,2025-10-12)
// @Param			page		query		int		false	"The page number of the results. Default is 1. Negative numbers and zero are treated as 1."
// @Param			limit		query		int		false	"The number of items per page. Default is 10, at most 100. Negative numbers and zero are treated as 1."
// @Success		200			{object}	SearchResponse
// @Failure		401			{string}	string	"unauthorized access"
// @Router			/search [get]
func (a *Application) SearchUserHandler(w http.ResponseWriter, r *http.Request) {
	phoneQuery, err := rawQueryValue(r.URL.RawQuery, "phone")
	if err != nil {
		http.Error(w, "invalid value for phone", http.StatusBadRequest)
		return
	}
	registerQuery := r.URL.Query().Get("register")
	pageQuery := r.URL.Query().Get("page")
	limitQuery := r.URL.Query().Get("limit")

	// initialize user search option list
	opts := []db.SearchUserOption{}

	if len(phoneQuery) > 0 {
		phone, err := entity.ValidatePhone(phoneQuery)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		opts = append(opts, db.SearchUserByPhone(phone))
	}

	if len(registerQuery) > 0 {
		register := strings.Split(registerQuery, ",")
		if len(register) != 2 {
			http.Error(w, "register format must be YYYY-MM-DD,YYYY-MM-DD", http.StatusBadRequest)
			return
		}
		registerFrom, err := time.Parse(time.DateOnly, register[0])
		if err != nil {
			http.Error(w, "invalid date format for register", http.StatusBadRequest)
			return
		}
		registerTo, err := time.Parse(time.DateOnly, register[1])
		if err != nil {
			http.Error(w, "invalid date format for register", http.StatusBadRequest)
			return
		}
		// the last day is included as a whole
		registerTo = registerTo.Add(24*time.Hour - time.Nanosecond)
		opts = append(opts, db.SearchUserByRegisterTime(&registerFrom, &registerTo))
	}

	var limit int64 = 10
	var page int64 = 1
	if len(limitQuery) > 0 {
		limit, err = strconv.ParseInt(limitQuery, 10, 64)
		if err != nil {
			http.Error(w, "invalid value for limit", http.StatusBadRequest)
			return
		}
	}
	if len(pageQuery) > 0 {
		page, err = strconv.ParseInt(pageQuery, 10, 64)
		if err != nil {
			http.Error(w, "invalid value for page", http.StatusBadRequest)
			return
		}
	}
	opts = append(opts, db.SearchUserByPagination(page, limit))

	if claims, ok := ClaimsFromContext(r.Context()); ok {
		a.logger.Debug("searching users", "by", claims.UserID, "query", r.URL.RawQuery)
	}

	list, err := a.db.SearchUser(r.Context(), opts...)
	if err != nil {
		a.logger.Error("err when searching user " + err.Error())
		http.Error(w, "something went wrong, try again later", http.StatusInternalServerError)
		return
	}
	a.writeJSON(w, http.StatusOK, SearchResponse{
		Code:   http.StatusOK,
		Result: list,
	})
}

// rawQueryValue returns the first value of key in a raw query.
// Unlike url.Values it keeps a literal plus, so phone numbers need not escape it.
func rawQueryValue(rawQuery, key string) (string, error) {
	for _, part := range strings.Split(rawQuery, "&") {
		k, v, _ := strings.Cut(part, "=")
		if k != key {
			continue
		}
		return url.PathUnescape(v)
	}
	return "", nil
}

// AuthMiddleware lets requests with a valid bearer token through and
// puts the token claims in the request context.
func (a *Application) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || token == "" {
			http.Error(w, "unauthorized access", http.StatusUnauthorized)
			return
		}

		claims, err := a.jwt.Parse(token)
		if err != nil {
			a.logger.Debug("rejected token", "err", err)
			http.Error(w, "unauthorized access", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey{}, claims)))
	})
}
