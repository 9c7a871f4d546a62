package handlers

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/subhrajit77/DoDeck-The-Task-manager/config"
	"github.com/subhrajit77/DoDeck-The-Task-manager/middleware"
	"github.com/subhrajit77/DoDeck-The-Task-manager/models"
)

const minPasswordLength = 8

// UserStore is what the identity endpoints need from the credential store.
type UserStore interface {
	Create(ctx context.Context, name, email, passwordHash string) (*models.User, error)
	ByEmail(ctx context.Context, email string) (*models.User, error)
	ByID(ctx context.Context, id int64) (*models.User, error)
	UpdateProfile(ctx context.Context, id int64, name, email string) (*models.User, error)
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
}

// AuthHandler serves registration, login and profile management. The
// signing config is injected at construction, never read from a global.
type AuthHandler struct {
	cfg   *config.Config
	users UserStore
}

func NewAuthHandler(cfg *config.Config, users UserStore) *AuthHandler {
	return &AuthHandler{cfg: cfg, users: users}
}

func validEmail(email string) bool {
	_, err := mail.ParseAddress(email)
	return err == nil
}

type registerInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates an account and returns a fresh token with the
// public identity.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	in := new(registerInput)
	if err := c.BodyParser(in); err != nil {
		return respond(c, fiber.StatusBadRequest, "invalid request body")
	}
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)

	if in.Name == "" || in.Email == "" || in.Password == "" {
		return respond(c, fiber.StatusBadRequest, "please fill all fields")
	}
	if !validEmail(in.Email) {
		return respond(c, fiber.StatusBadRequest, "please enter a valid email")
	}
	if len(in.Password) < minPasswordLength {
		return respond(c, fiber.StatusBadRequest, "password must be at least 8 characters")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return fail(c, err)
	}

	user, err := h.users.Create(c.UserContext(), in.Name, in.Email, string(hashed))
	if errors.Is(err, models.ErrConflict) {
		return respond(c, fiber.StatusConflict, "user already exists")
	}
	if err != nil {
		return fail(c, err)
	}

	token, err := h.issueToken(user.ID)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"token":   token,
		"user":    user.Public(),
	})
}

type loginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login verifies credentials and returns a fresh token. Unknown email
// and wrong password produce the same message so accounts cannot be
// enumerated.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	in := new(loginInput)
	if err := c.BodyParser(in); err != nil {
		return respond(c, fiber.StatusBadRequest, "invalid request body")
	}
	in.Email = strings.TrimSpace(in.Email)

	if in.Email == "" || in.Password == "" {
		return respond(c, fiber.StatusBadRequest, "please fill all fields")
	}
	if !validEmail(in.Email) {
		return respond(c, fiber.StatusBadRequest, "please enter a valid email")
	}

	user, err := h.users.ByEmail(c.UserContext(), in.Email)
	if errors.Is(err, models.ErrNotFound) {
		return respond(c, fiber.StatusUnauthorized, "invalid credentials")
	}
	if err != nil {
		return fail(c, err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.Password)) != nil {
		return respond(c, fiber.StatusUnauthorized, "invalid credentials")
	}

	token, err := h.issueToken(user.ID)
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"token":   token,
		"user":    user.Public(),
	})
}

// Me returns the caller's public identity.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user := middleware.Identity(c)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"user":    user.Public(),
	})
}

type profileInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UpdateProfile changes the caller's name and email.
func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	in := new(profileInput)
	if err := c.BodyParser(in); err != nil {
		return respond(c, fiber.StatusBadRequest, "invalid request body")
	}
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)

	if in.Name == "" || in.Email == "" || !validEmail(in.Email) {
		return respond(c, fiber.StatusBadRequest, "please fill all fields")
	}

	user, err := h.users.UpdateProfile(c.UserContext(), middleware.Identity(c).ID, in.Name, in.Email)
	if errors.Is(err, models.ErrConflict) {
		return respond(c, fiber.StatusConflict, "email already used by another account")
	}
	if errors.Is(err, models.ErrNotFound) {
		return respond(c, fiber.StatusNotFound, "user not found")
	}
	if err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"user":    user.Public(),
	})
}

type passwordInput struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// ChangePassword replaces the stored hash after re-checking the
// current password.
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	in := new(passwordInput)
	if err := c.BodyParser(in); err != nil {
		return respond(c, fiber.StatusBadRequest, "invalid request body")
	}
	if in.CurrentPassword == "" || in.NewPassword == "" {
		return respond(c, fiber.StatusBadRequest, "please fill all fields")
	}

	user := middleware.Identity(c)
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(in.CurrentPassword)) != nil {
		return respond(c, fiber.StatusUnauthorized, "current password incorrect")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fail(c, err)
	}
	if err := h.users.UpdatePassword(c.UserContext(), user.ID, string(hashed)); err != nil {
		return fail(c, err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "password updated successfully",
	})
}

func (h *AuthHandler) issueToken(userID int64) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     time.Now().Add(h.cfg.TokenLifetime).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(h.cfg.JWTSecret)
}
