package service

import (
	"context"
	"time"

	"github.com/mansij47/Optiven-Backend/internal/middleware"
	"github.com/mansij47/Optiven-Backend/internal/model"
	"github.com/mansij47/Optiven-Backend/internal/repository"
	"github.com/mansij47/Optiven-Backend/pkg/apperror"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// --- DTOs ---

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type TokenResponse struct {
	Token     string `json:"token"`
	Role      string `json:"role"`
	StoreID   string `json:"store_id"`
	FirstName string `json:"first_name"`
}

type CreateUserRequest struct {
	FirstName   string `json:"first_name" binding:"required"`
	LastName    string `json:"last_name"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=6"`
	Role        string `json:"role" binding:"required"`
	JoiningDate string `json:"joining_date"`
}

// UserResponse exposes a user without the password hash.
type UserResponse struct {
	ID          uuid.UUID `json:"id"`
	OrgID       string    `json:"org_id"`
	StoreID     string    `json:"store_id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	JoiningDate string    `json:"joining_date"`
	CreatedAt   string    `json:"created_at"`
}

// --- Interface ---

type UserService interface {
	Login(ctx context.Context, req LoginRequest) (*TokenResponse, error)
	CreateUser(ctx context.Context, principal middleware.Principal, req CreateUserRequest) (*UserResponse, error)
	GetMe(ctx context.Context, principal middleware.Principal) (*UserResponse, error)
	ListUsers(ctx context.Context, principal middleware.Principal, page, limit int) ([]UserResponse, int64, error)
}

type userService struct {
	userRepo  repository.UserRepository
	auditRepo repository.AuditRepository
	txManager repository.TransactionManager
}

func NewUserService(userRepo repository.UserRepository, auditRepo repository.AuditRepository, txManager repository.TransactionManager) UserService {
	return &userService{userRepo: userRepo, auditRepo: auditRepo, txManager: txManager}
}

// --- Implementation ---

// Login verifies credentials and issues a token carrying the tenant scope.
// Every downstream query trusts these claims for store/org filtering.
func (s *userService) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, apperror.Validation("invalid email or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, apperror.Validation("invalid email or password")
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":      user.ID.String(),
		"role":     user.Role,
		"store_id": user.StoreID,
		"org_id":   user.OrgID,
		"email":    user.Email,
		"exp":      time.Now().Add(24 * time.Hour).Unix(),
	})

	tokenString, err := token.SignedString(middleware.GetJWTSecret())
	if err != nil {
		return nil, apperror.Internal("failed to generate token", err)
	}

	return &TokenResponse{
		Token:     tokenString,
		Role:      user.Role,
		StoreID:   user.StoreID,
		FirstName: user.FirstName,
	}, nil
}

// CreateUser adds a department account inside the caller's tenant. Admins can
// only mint sales/procurement users; tenant scope comes from the principal,
// never from the payload.
func (s *userService) CreateUser(ctx context.Context, principal middleware.Principal, req CreateUserRequest) (*UserResponse, error) {
	if !validUserRole(req.Role) {
		return nil, apperror.Validation("invalid role: must be admin, sales, or procurement")
	}
	if _, err := s.userRepo.GetByEmail(ctx, req.Email); err == nil {
		return nil, apperror.Conflict("email already exists")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.Internal("failed to hash password", err)
	}

	user := &model.User{
		OrgID:       principal.OrgID,
		StoreID:     principal.StoreID,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       req.Email,
		Password:    string(hashedPassword),
		Role:        req.Role,
		JoiningDate: req.JoiningDate,
		FirstLogin:  true,
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.userRepo.Create(txCtx, user); err != nil {
			return apperror.Internal("failed to create user", err)
		}
		entry := auditEntry(principal, model.ActionCreateUser, user.Email, req.FirstName, nil)
		return s.auditRepo.Log(txCtx, &entry)
	})
	if err != nil {
		return nil, err
	}
	return mapUserResponse(user), nil
}

func (s *userService) GetMe(ctx context.Context, principal middleware.Principal) (*UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, principal.ID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperror.NotFound("UserNotFound")
		}
		return nil, apperror.Internal("failed to load user", err)
	}
	return mapUserResponse(user), nil
}

func (s *userService) ListUsers(ctx context.Context, principal middleware.Principal, page, limit int) ([]UserResponse, int64, error) {
	users, total, err := s.userRepo.List(ctx, principal.OrgID, page, limit)
	if err != nil {
		return nil, 0, apperror.Internal("failed to list users", err)
	}
	responses := make([]UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, *mapUserResponse(&u))
	}
	return responses, total, nil
}

// --- helpers ---

func validUserRole(role string) bool {
	return role == model.RoleAdmin || role == model.RoleSales || role == model.RoleProcurement
}

func mapUserResponse(user *model.User) *UserResponse {
	return &UserResponse{
		ID:          user.ID,
		OrgID:       user.OrgID,
		StoreID:     user.StoreID,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		Email:       user.Email,
		Role:        user.Role,
		JoiningDate: user.JoiningDate,
		CreatedAt:   user.CreatedAt.Format(time.RFC3339),
	}
}
