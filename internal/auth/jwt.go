package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/Freeeeeet/hospital_scheduler/internal/model"
	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// Claims JWT-утверждения: идентификатор пользователя и его роли
type Claims struct {
	UserID string   `json:"user_id"`
	Roles  []string `json:"roles"`
	jwtv5.RegisteredClaims
}

// ModelRoles возвращает роли в виде model.Role, неизвестные пропускаются
func (c *Claims) ModelRoles() []model.Role {
	roles := make([]model.Role, 0, len(c.Roles))
	for _, r := range c.Roles {
		if role, ok := model.ParseRole(r); ok {
			roles = append(roles, role)
		}
	}
	return roles
}

// Manager выпускает и проверяет токены доступа (HS256)
type Manager struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewManager(secret, issuer string, ttl time.Duration) *Manager {
	return &Manager{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

// IssueToken выпускает токен доступа для пользователя
func (m *Manager) IssueToken(userID int64, roles []model.Role) (string, error) {
	now := m.now()

	names := make([]string, 0, len(roles))
	for _, r := range roles {
		names = append(names, string(r))
	}

	claims := Claims{
		UserID: strconv.FormatInt(userID, 10),
		Roles:  names,
		RegisteredClaims: jwtv5.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   strconv.FormatInt(userID, 10),
			Issuer:    m.issuer,
			IssuedAt:  jwtv5.NewNumericDate(now),
			ExpiresAt: jwtv5.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// ParseToken разбирает и проверяет токен
func (m *Manager) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwtv5.ParseWithClaims(tokenString, &Claims{}, func(t *jwtv5.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwtv5.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return m.secret, nil
	},
		jwtv5.WithIssuer(m.issuer),
		jwtv5.WithTimeFunc(m.now),
	)

	if err != nil {
		if errors.Is(err, jwtv5.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
