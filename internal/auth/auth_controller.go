package auth

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/DhavalSuthar-24/crictally/config"
	"github.com/DhavalSuthar-24/crictally/internal/middleware"
	"github.com/DhavalSuthar-24/crictally/internal/user"
	"github.com/DhavalSuthar-24/crictally/pkg/responses"
	"github.com/DhavalSuthar-24/crictally/pkg/token"
	"github.com/DhavalSuthar-24/crictally/utils"
)

// AuthController handles registration, login and session refresh.
type AuthController struct {
	repo      AuthRepository
	appConfig *config.Config
}

func NewAuthController(repo AuthRepository, appConfig *config.Config) *AuthController {
	return &AuthController{repo: repo, appConfig: appConfig}
}

// Register creates a new scorer account.
// @Summary Register a new user
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration payload"
// @Success 201 {object} responses.SuccessResponse
// @Router /auth/register [post]
func (ac *AuthController) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendValidationError(c, err)
		return
	}

	if _, err := ac.repo.GetUserByEmail(req.Email); err == nil {
		responses.Conflict(c, "Email is already registered")
		return
	}
	if _, err := ac.repo.GetUserByUsername(req.Username); err == nil {
		responses.Conflict(c, "Username is already taken")
		return
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		responses.InternalServerError(c, "Failed to hash password")
		return
	}

	u := user.User{
		Name:     req.Name,
		Username: req.Username,
		Email:    req.Email,
		Password: hashed,
	}
	if err := ac.repo.CreateUser(&u); err != nil {
		responses.InternalServerError(c, "Failed to create user: "+err.Error())
		return
	}

	access, refresh, err := ac.issueTokens(&u)
	if err != nil {
		responses.InternalServerError(c, "Failed to issue tokens: "+err.Error())
		return
	}

	responses.SendSuccess(c, http.StatusCreated, "User registered successfully", AuthResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         FilterUserRecord(&u),
	})
}

// Login authenticates by email or username.
// @Summary Log in
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login payload"
// @Success 200 {object} responses.SuccessResponse
// @Router /auth/login [post]
func (ac *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendValidationError(c, err)
		return
	}

	u, err := ac.repo.GetUserByEmail(req.LoginIdentifier)
	if err != nil {
		u, err = ac.repo.GetUserByUsername(req.LoginIdentifier)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			responses.Unauthorized(c, "Invalid credentials")
			return
		}
		responses.InternalServerError(c, "Failed to look up user: "+err.Error())
		return
	}

	if !utils.CheckPassword(u.Password, req.Password) {
		responses.Unauthorized(c, "Invalid credentials")
		return
	}

	access, refresh, err := ac.issueTokens(u)
	if err != nil {
		responses.InternalServerError(c, "Failed to issue tokens: "+err.Error())
		return
	}

	responses.SendSuccess(c, http.StatusOK, "Logged in successfully", AuthResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		User:         FilterUserRecord(u),
	})
}

// RefreshToken exchanges a stored refresh token for a fresh access token.
// @Summary Refresh the access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RefreshTokenRequest true "Refresh payload"
// @Success 200 {object} responses.SuccessResponse
// @Router /auth/refresh-token [post]
func (ac *AuthController) RefreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendValidationError(c, err)
		return
	}

	stored, err := ac.repo.GetRefreshToken(req.RefreshToken)
	if err != nil {
		responses.Unauthorized(c, "Invalid or expired refresh token")
		return
	}

	access, err := token.GenerateJWT(stored.UserID, ac.appConfig.JWT.AccessTokenSecret,
		time.Duration(ac.appConfig.JWT.AccessTokenExpiryMinutes)*time.Minute)
	if err != nil {
		responses.InternalServerError(c, "Failed to issue access token: "+err.Error())
		return
	}

	responses.SendSuccess(c, http.StatusOK, "Token refreshed", gin.H{"access_token": access})
}

// Logout revokes a refresh token.
// @Summary Log out
// @Tags auth
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body LogoutRequest true "Logout payload"
// @Success 200 {object} responses.SuccessResponse
// @Router /auth/logout [post]
func (ac *AuthController) Logout(c *gin.Context) {
	var req LogoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		responses.SendValidationError(c, err)
		return
	}
	if err := ac.repo.InvalidateRefreshToken(req.RefreshToken); err != nil {
		responses.InternalServerError(c, "Failed to revoke refresh token: "+err.Error())
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Logged out successfully", nil)
}

// GetProfile returns the authenticated user.
// @Summary Get the current user profile
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} responses.SuccessResponse
// @Router /auth/me [get]
func (ac *AuthController) GetProfile(c *gin.Context) {
	userID, err := middleware.GetUserIDFromContext(c)
	if err != nil {
		responses.Unauthorized(c, err.Error())
		return
	}
	u, err := ac.repo.GetUserByID(userID)
	if err != nil {
		responses.NotFound(c, "User")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "", FilterUserRecord(u))
}

// issueTokens creates the access JWT and a DB-backed refresh token.
func (ac *AuthController) issueTokens(u *user.User) (access, refresh string, err error) {
	jwtCfg := ac.appConfig.JWT

	access, err = token.GenerateJWT(u.ID, jwtCfg.AccessTokenSecret,
		time.Duration(jwtCfg.AccessTokenExpiryMinutes)*time.Minute)
	if err != nil {
		return "", "", err
	}

	refreshExpiry := time.Duration(jwtCfg.RefreshTokenExpiryDays) * 24 * time.Hour
	refresh, err = token.GenerateJWT(u.ID, jwtCfg.RefreshTokenSecret, refreshExpiry)
	if err != nil {
		return "", "", err
	}

	err = ac.repo.SaveRefreshToken(&user.RefreshToken{
		UserID:    u.ID,
		Token:     refresh,
		ExpiresAt: time.Now().Add(refreshExpiry),
	})
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}
