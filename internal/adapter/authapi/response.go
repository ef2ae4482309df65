package authapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spendcheck/spendcheck-go/internal/auth"
	"github.com/spendcheck/spendcheck-go/internal/domain"
)

// sessionResponse is the service's session payload, returned by signup,
// password grant, and refresh.
type sessionResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int64        `json:"expires_in"`
	ExpiresAt    int64        `json:"expires_at"`
	User         userResponse `json:"user"`
}

// userResponse is the service's user payload.
type userResponse struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	IsAnonymous bool      `json:"is_anonymous"`
	CreatedAt   time.Time `json:"created_at"`
}

func (r sessionResponse) session() (*domain.Session, error) {
	if r.AccessToken == "" || r.User.ID == "" {
		return nil, fmt.Errorf("authapi: incomplete session payload")
	}

	var expiresAt time.Time
	switch {
	case r.ExpiresAt != 0:
		expiresAt = time.Unix(r.ExpiresAt, 0)
	case r.ExpiresIn != 0:
		expiresAt = time.Now().Add(time.Duration(r.ExpiresIn) * time.Second)
	default:
		// Some responses omit the expiry fields; the access token's own
		// claims carry it.
		if info, err := auth.InspectToken(r.AccessToken); err == nil {
			expiresAt = info.ExpiresAt
		}
	}

	return &domain.Session{
		Identity:     r.User.identity(),
		AccessToken:  r.AccessToken,
		RefreshToken: r.RefreshToken,
		ExpiresAt:    expiresAt,
	}, nil
}

func (r userResponse) identity() domain.Identity {
	kind := domain.IdentityReal
	if r.IsAnonymous {
		kind = domain.IdentityAnonymous
	}
	return domain.Identity{
		ID:        r.ID,
		Kind:      kind,
		Email:     r.Email,
		CreatedAt: r.CreatedAt,
	}
}

// errorResponse covers the error body shapes the service emits.
type errorResponse struct {
	ErrorCode        string `json:"error_code"`
	Msg              string `json:"msg"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

// parseErrorResponse maps a non-2xx response to a domain.AuthError. The body
// is best effort; an unparseable body falls back to the HTTP status code.
func parseErrorResponse(status int, raw []byte) *domain.AuthError {
	var body errorResponse
	_ = json.Unmarshal(raw, &body)

	code := body.ErrorCode
	if code == "" {
		code = body.Error
	}
	if code == "" {
		code = strconv.Itoa(status)
	}

	msg := body.Msg
	if msg == "" {
		msg = body.ErrorDescription
	}

	return domain.NewAuthError(code, msg)
}

func asAuthError(err error, target **domain.AuthError) bool {
	return errors.As(err, target)
}
