package devserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	appErrors "github.com/noah-isme/sma-adp-console/pkg/errors"
)

type seedUser struct {
	ID           string
	Email        string
	FullName     string
	PasswordHash string
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

type authClaims struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	jwt.RegisteredClaims
}

func (s *Server) seedAdmin(email, password, fullName string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	s.users[strings.ToLower(email)] = seedUser{
		ID:           uuid.NewString(),
		Email:        email,
		FullName:     fullName,
		PasswordHash: string(hash),
	}
	return nil
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload"))
		return
	}
	if err := s.validate.Struct(req); err != nil {
		respondError(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload"))
		return
	}

	user, ok := s.users[strings.ToLower(req.Email)]
	if !ok {
		respondError(c, appErrors.New("INVALID_CREDENTIALS", http.StatusUnauthorized, "invalid email or password"))
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		respondError(c, appErrors.New("INVALID_CREDENTIALS", http.StatusUnauthorized, "invalid email or password"))
		return
	}

	token, err := s.issueToken(user)
	if err != nil {
		respondError(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign token"))
		return
	}

	respond(c, http.StatusOK, tokenResponse{
		AccessToken:  token,
		RefreshToken: uuid.NewString(),
		ExpiresIn:    int64(s.tokenTTL.Seconds()),
	}, nil)
}

func (s *Server) issueToken(user seedUser) (string, error) {
	now := time.Now().UTC()
	claims := &authClaims{
		Email:    user.Email,
		FullName: user.FullName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.jwtSecret))
}

// requireAuth guards the API routes, answering 401 with the standard error
// envelope on a missing or invalid bearer token.
func (s *Server) requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		parts := strings.SplitN(header, " ", 2)
		if header == "" || len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			respondError(c, appErrors.Clone(appErrors.ErrAuthExpired, "missing bearer token"))
			c.Abort()
			return
		}

		token, err := jwt.ParseWithClaims(parts[1], &authClaims{}, func(token *jwt.Token) (interface{}, error) {
			if token.Method != jwt.SigningMethodHS256 {
				return nil, appErrors.Clone(appErrors.ErrAuthExpired, "unexpected signing method")
			}
			return []byte(s.jwtSecret), nil
		})
		if err != nil || !token.Valid {
			respondError(c, appErrors.Clone(appErrors.ErrAuthExpired, "invalid or expired token"))
			c.Abort()
			return
		}

		c.Next()
	}
}
