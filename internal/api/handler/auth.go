package handler

import (
	"errors"
	"net/http"
	"time"

	"flightclaim/backend/internal/models"
	"flightclaim/backend/internal/storage"

	"github.com/gin-gonic/gin"
	jwt "github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// signToken issues the admin session token.
func signToken(admin *models.AdminUser, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := adminClaims{
		Email: admin.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   admin.ID,
			Issuer:    "flightclaim-backend",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// Login exchanges admin credentials for a JWT.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.respondError(c, invalidInput(err))
		return
	}

	admin, err := h.Storage.GetAdminByEmail(c.Request.Context(), req.Email)
	if errors.Is(err, storage.ErrNotFound) {
		// same cost as a real comparison so timing does not reveal unknown emails
		bcrypt.CompareHashAndPassword(dummyHash, []byte(req.Password))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	if err != nil {
		h.respondError(c, err)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(req.Password)) != nil {
		h.Log.Warn("admin login failed", "email", admin.Email)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	token, err := signToken(admin, h.JWTSecret, h.JWTTTL)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.Log.Info("admin logged in", "admin_id", admin.ID)
	c.JSON(http.StatusOK, gin.H{"token": token, "expires_in": int(h.JWTTTL.Seconds())})
}

// bcrypt of a random string, compared against for unknown emails
var dummyHash = []byte("$2a$10$7EqJtq98hPqEX7fNZaFWoOhi5BWX4Z3ZfYVG3D4Hk8f9r1p5Yb2mS")
