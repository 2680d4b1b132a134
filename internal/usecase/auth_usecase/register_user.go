package auth

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"delivery/internal/domain/model"
	"delivery/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// 会員登録の入力
type RegisterUserInput struct {
	Email        string
	Password     string
	Name         string
	Role         string
	RestaurantID *int64
}

// 会員登録の出力
type RegisterUserOutput struct {
	User model.User `json:"user"`
}

// 最小パスワード長
const MinPasswordLength = 6

var (
	// 入力が不正
	ErrInvalidEmailFormat = errors.New("invalid email format")
	ErrPasswordTooShort   = errors.New("password too short")
	ErrWeakPassword       = errors.New("weak password")
	ErrInvalidRole        = errors.New("invalid role")
	ErrRestaurantRequired = errors.New("restaurant_id is required for RESTAURANTE")

	// 紐づけ先のレストランが無い
	ErrRestaurantNotFound = errors.New("restaurant not found")

	// 競合
	ErrEmailAlreadyExists      = errors.New("email already exists")
	ErrRestaurantAlreadyLinked = errors.New("restaurant already has a user")
	// 同時登録で一意制約に当たった（email か restaurant_id）
	ErrAccountAlreadyExists = errors.New("account already exists")
)

// 平文パスワードからハッシュへ。
type PasswordHasher interface {
	Hash(plain string) (string, error)
}

// 現在の時間
type Clock interface {
	Now() time.Time
}

// RESTAURANTE の紐づけ先を確かめる
type RestaurantFinder interface {
	FindByID(ctx context.Context, id int64) (model.Restaurant, error)
}

// RegisterUserUsecaseは会員登録の処理。
type RegisterUserUsecase struct {
	userRepo    repository.UserRepository
	restaurants RestaurantFinder
	hasher      PasswordHasher
	clock       Clock
}

// DI
func NewRegisterUserUsecase(
	userRepo repository.UserRepository,
	restaurants RestaurantFinder,
	hasher PasswordHasher,
	clock Clock,
) *RegisterUserUsecase {
	return &RegisterUserUsecase{
		userRepo:    userRepo,
		restaurants: restaurants,
		hasher:      hasher,
		clock:       clock,
	}
}

// 会員登録実行
func (u *RegisterUserUsecase) Execute(ctx context.Context, in RegisterUserInput) (RegisterUserOutput, error) {
	var out RegisterUserOutput

	email := strings.ToLower(strings.TrimSpace(in.Email))

	// emailの形式チェック
	if !isValidEmailFormat(email) {
		return out, ErrInvalidEmailFormat
	}

	if len(in.Password) < MinPasswordLength {
		return out, ErrPasswordTooShort
	}

	// よくある弱いパスワードの拒否
	if isWeakPassword(in.Password) {
		return out, ErrWeakPassword
	}

	// 公開登録で選べるのは CLIENTE / RESTAURANTE（未指定は CLIENTE）
	role := model.RoleCustomer
	if r := strings.ToUpper(strings.TrimSpace(in.Role)); r != "" {
		parsed, ok := model.ParseRole(r)
		if !ok || parsed == model.RoleAdmin {
			return out, ErrInvalidRole
		}
		role = parsed
	}
	var restaurantID *int64
	if role == model.RoleRestaurant {
		if in.RestaurantID == nil || *in.RestaurantID <= 0 {
			return out, ErrRestaurantRequired
		}
		restaurantID = in.RestaurantID
	}

	// email重複チェック
	existing, err := u.userRepo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return out, ErrEmailAlreadyExists
	}
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return out, err
	}

	// 実在するレストランで、まだ誰にも紐づいていないこと
	if restaurantID != nil {
		if err := u.checkRestaurantFree(ctx, *restaurantID); err != nil {
			return out, err
		}
	}

	// パスワードをハッシュ化
	hashed, err := u.hasher.Hash(in.Password)
	if err != nil {
		return out, err
	}

	now := u.clock.Now()
	user := &model.User{
		Email:        email,
		PasswordHash: hashed, // ハッシュを保存（平文は保存しない）
		Name:         strings.TrimSpace(in.Name),
		Role:         role,
		TokenVersion: 0,
		IsActive:     true,
		RestaurantID: restaurantID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// DBへ保存
	if err := u.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return out, ErrAccountAlreadyExists
		}
		return out, err
	}

	out.User = *user
	return out, nil
}

func (u *RegisterUserUsecase) checkRestaurantFree(ctx context.Context, restaurantID int64) error {
	if _, err := u.restaurants.FindByID(ctx, restaurantID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRestaurantNotFound
		}
		return err
	}

	linked, err := u.userRepo.ExistsByRestaurantID(ctx, restaurantID)
	if err != nil {
		return err
	}
	if linked {
		return ErrRestaurantAlreadyLinked
	}
	return nil
}

// メールチェック
func isValidEmailFormat(email string) bool {
	trimmed := strings.TrimSpace(email)
	if trimmed == "" {
		return false
	}
	addr, err := mail.ParseAddress(trimmed)
	return err == nil && addr.Address == trimmed
}

// パスワードのよくある弱いパスワード
func isWeakPassword(password string) bool {
	normalized := strings.ToLower(strings.TrimSpace(password))

	weak := map[string]struct{}{
		"password":    {},
		"password123": {},
		"qwerty":      {},
		"qwertyuiop":  {},
		"letmein":     {},
		"admin":       {},
		"admin123":    {},
		"senha123":    {},
	}

	_, ok := weak[normalized]
	return ok
}

// bcryptハッシュ化
type BcryptPasswordHasher struct {
	cost int
}

// DI
func NewBcryptPasswordHasher(cost int) *BcryptPasswordHasher {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptPasswordHasher{cost}
}

// bcryptでハッシュ化
func (h *BcryptPasswordHasher) Hash(plain string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", err
	}

	return string(hashedBytes), nil
}

// bcryptハッシュと平文を比較
type BcryptPasswordVerifier struct{}

// DI
func NewBcryptPasswordVerifier() *BcryptPasswordVerifier {
	return &BcryptPasswordVerifier{}
}

// 平文(plain)をbcryptで比較
func (v *BcryptPasswordVerifier) Verify(plain string, hashed string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
	return err == nil
}
