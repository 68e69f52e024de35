package logic

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/VSO-Labs/Daddy-John-Backend/apperr"
	"github.com/VSO-Labs/Daddy-John-Backend/dao"
	"github.com/VSO-Labs/Daddy-John-Backend/logger"
	"github.com/VSO-Labs/Daddy-John-Backend/models"
)

// UserLogic handles account registration and login.
type UserLogic struct {
	userDAO *dao.UserDAO
	secret  []byte
	expHour int
	log     *logger.Logger
}

func NewUserLogic(userDAO *dao.UserDAO, secret string, expHour int, baseLog *logger.Logger) *UserLogic {
	return &UserLogic{
		userDAO: userDAO,
		secret:  []byte(secret),
		expHour: expHour,
		log:     baseLog.With("logic", "UserLogic"),
	}
}

// Register creates an account with a bcrypt-hashed credential and the
// default USER role.
func (l *UserLogic) Register(ctx context.Context, username, password string) (*models.User, error) {
	if username == "" || password == "" {
		return nil, apperr.InvalidArgument("username and password are required")
	}

	taken, err := l.userDAO.UsernameExists(ctx, username)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, apperr.InvalidArgument("username already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user, err := l.userDAO.CreateUser(ctx, username, string(hash))
	if err != nil {
		return nil, err
	}
	l.log.Info("user registered", "username", username)
	return user, nil
}

// Login verifies the credential and issues an HS256 bearer token.
func (l *UserLogic) Login(ctx context.Context, username, password string) (*models.User, string, time.Time, error) {
	user, err := l.userDAO.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", time.Time{}, apperr.Unauthenticated("invalid username or password")
		}
		return nil, "", time.Time{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", time.Time{}, apperr.Unauthenticated("invalid username or password")
	}

	token, expireAt, err := l.generateJWT(user)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, expireAt, nil
}

func (l *UserLogic) generateJWT(user *models.User) (string, time.Time, error) {
	expireAt := time.Now().Add(time.Duration(l.expHour) * time.Hour)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": user.Username,
		"roles":    user.RoleList(),
		"exp":      expireAt.Unix(),
	})
	tokenString, err := token.SignedString(l.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expireAt, nil
}
