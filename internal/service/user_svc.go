package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"

	"soko_market_v1/internal/api/dto"
	"soko_market_v1/internal/middleware"
	"soko_market_v1/internal/model"
	"soko_market_v1/internal/repository"
)

// ==================== 错误定义 ====================

var (
	ErrUsernameTaken      = errors.New("用户名已被占用")
	ErrInvalidCredentials = errors.New("用户名或密码错误")
	ErrUserDisabled       = errors.New("账号已被禁用")
)

// ==================== 服务实现 ====================

// UserService 用户注册与登录
type UserService struct {
	users repository.UserRepository
}

// NewUserService 创建用户服务
func NewUserService(users repository.UserRepository) *UserService {
	return &UserService{users: users}
}

// Register 注册新用户
func (s *UserService) Register(ctx context.Context, req *dto.RegisterRequest) (*model.SysUser, error) {
	exists, err := s.users.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("查询用户失败: %v", err)
	}
	if exists {
		return nil, ErrUsernameTaken
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("密码加密失败: %v", err)
	}

	user := &model.SysUser{
		Username: req.Username,
		Password: string(hashed),
		Email:    req.Email,
		Phone:    req.Phone,
		Role:     model.UserRoleUser,
		IsActive: true,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("创建用户失败: %v", err)
	}

	log.Printf("[用户] 新注册: %s (ID=%d)", user.Username, user.ID)
	return user, nil
}

// Login 登录，成功返回 Token 对
func (s *UserService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("查询用户失败: %v", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrUserDisabled
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	accessToken, refreshToken, err := middleware.GenerateTokenPair(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, fmt.Errorf("生成 Token 失败: %v", err)
	}

	if err := s.users.UpdateLastLogin(ctx, user.ID); err != nil {
		// 登录时间更新失败不阻断登录
		log.Printf("[用户] 更新登录时间失败: %v", err)
	}

	return &dto.LoginResponse{
		User:         s.ToUserVO(user),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(middleware.GetJWTConfig().AccessTokenTTL.Seconds()),
	}, nil
}

// GetByID 获取用户信息
func (s *UserService) GetByID(ctx context.Context, id int64) (*model.SysUser, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("用户不存在")
	}
	return user, nil
}

// ToUserVO 转换为视图对象
func (s *UserService) ToUserVO(user *model.SysUser) dto.UserVO {
	return dto.UserVO{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
	}
}
