package identity

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/rajeshmondalofficial/rentmate-backend/internal/auth"
	"github.com/rajeshmondalofficial/rentmate-backend/internal/models"
	"github.com/rajeshmondalofficial/rentmate-backend/internal/repository"
)

// Notifier dispatches freshly issued codes to the delivery channel (SMS/email
// workers consume the events elsewhere).
type Notifier interface {
	OTPIssued(ctx context.Context, event OTPEvent) error
}

// OTPEvent describes one issued code for downstream delivery.
type OTPEvent struct {
	UserID     string    `json:"user_id"`
	Identifier string    `json:"identifier"`
	Kind       string    `json:"kind"`
	Code       string    `json:"code"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// Service orchestrates registration, verification, login and password reset
// against the credential and OTP stores.
type Service struct {
	users    repository.UserRepository
	otps     repository.OTPRepository
	hasher   *auth.Hasher
	tokens   *auth.TokenManager
	notifier Notifier
	logger   *zap.SugaredLogger
	valid    *validator.Validate
	otpTTL   time.Duration
	now      func() time.Time
}

func NewService(
	users repository.UserRepository,
	otps repository.OTPRepository,
	hasher *auth.Hasher,
	tokens *auth.TokenManager,
	notifier Notifier,
	logger *zap.SugaredLogger,
	otpTTL time.Duration,
) *Service {
	return &Service{
		users:    users,
		otps:     otps,
		hasher:   hasher,
		tokens:   tokens,
		notifier: notifier,
		logger:   logger,
		valid:    newValidator(),
		otpTTL:   otpTTL,
		now:      time.Now,
	}
}

// Register creates an unverified account and issues email and phone codes.
// The OTP writes happen after the user insert without a shared transaction;
// a failure there is logged and the registration still succeeds.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if err := s.validate(in); err != nil {
		return nil, err
	}
	if in.Password != in.ConfirmPassword {
		return nil, singleIssue("confirmPassword", "Password and Confirm Password must be same")
	}

	exists, err := s.users.ExistsByEmailOrPhone(ctx, in.Email, in.Phone)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrConflict
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		Email:          in.Email,
		Phone:          in.Phone,
		PasswordHash:   hash,
		Gender:         in.Gender,
		DateOfBirth:    s.parseDateOfBirth(in.DateOfBirth),
		TwoStepEnabled: in.TwoStepEnabled,
	}
	if user.Gender == "" {
		user.Gender = models.GenderMale
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) {
			return nil, ErrConflict
		}
		return nil, err
	}

	s.issueOTP(ctx, user.ID, user.Email, models.OTPKindEmail)
	s.issueOTP(ctx, user.ID, user.Phone, models.OTPKindPhone)

	return user, nil
}

// VerifyPhoneOTP marks the phone verified and consumes the code.
func (s *Service) VerifyPhoneOTP(ctx context.Context, userID, code string) error {
	rec, err := s.findUserOTP(ctx, userID, models.OTPKindPhone)
	if err != nil {
		return err
	}
	if rec.Code != code {
		return ErrInvalidOTP
	}
	if err := s.users.MarkPhoneVerified(ctx, rec.UserID); err != nil {
		return err
	}
	if err := s.otps.Delete(ctx, rec.ID); err != nil {
		s.logger.Warnw("failed to delete consumed phone OTP", "user", userID, "err", err)
	}
	return nil
}

// VerifyEmailOTP marks the email verified. The record stays in the store until
// it expires, so re-submitting the same code keeps succeeding.
func (s *Service) VerifyEmailOTP(ctx context.Context, userID, code string) error {
	rec, err := s.findUserOTP(ctx, userID, models.OTPKindEmail)
	if err != nil {
		return err
	}
	if rec.Code != code {
		return ErrInvalidOTP
	}
	return s.users.MarkEmailVerified(ctx, rec.UserID)
}

// Login checks the password and issues a session token carrying the identity
// claims.
func (s *Service) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", nil, ErrUserNotFound
		}
		return "", nil, err
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return "", nil, ErrInvalidCredentials
	}
	token, err := s.tokens.Sign(&auth.IdentityClaims{
		UserID:    user.ID.Hex(),
		Email:     user.Email,
		Role:      user.Role,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	})
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Profile loads the caller's account.
func (s *Service) Profile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return user, err
}

// UpdateProfile merges the set fields (and an uploaded image filename, if any)
// into the caller's record and returns the stored result.
func (s *Service) UpdateProfile(ctx context.Context, userID string, in UpdateProfileInput, profileImage string) (*models.User, error) {
	if err := s.validate(in); err != nil {
		return nil, err
	}

	set := bson.M{}
	if in.FirstName != nil {
		set["firstName"] = *in.FirstName
	}
	if in.LastName != nil {
		set["lastName"] = *in.LastName
	}
	if in.Email != nil {
		set["email"] = *in.Email
	}
	if in.Phone != nil {
		set["phone"] = *in.Phone
	}
	if in.Gender != nil {
		set["gender"] = *in.Gender
	}
	if in.DateOfBirth != nil {
		set["dateOfBirth"] = s.parseDateOfBirth(*in.DateOfBirth)
	}
	if in.TwoStepEnabled != nil {
		set["twoStepEnabled"] = *in.TwoStepEnabled
	}
	if profileImage != "" {
		set["profileImage"] = profileImage
	}
	if len(set) == 0 {
		return s.Profile(ctx, userID)
	}

	user, err := s.users.Update(ctx, userID, set)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if errors.Is(err, repository.ErrAlreadyExists) {
		return nil, ErrConflict
	}
	return user, err
}

// ForgotPassword issues a reset code for the account matching the identifier
// (email or phone). The code travels only over the notification channel.
func (s *Service) ForgotPassword(ctx context.Context, identifier string) error {
	user, err := s.users.FindByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	rec := &models.OTPRecord{
		UserID:     user.ID,
		Identifier: identifier,
		Kind:       models.OTPKindForgot,
		Code:       generateCode(),
		ExpiresAt:  s.now().Add(s.otpTTL),
	}
	if err := s.otps.Create(ctx, rec); err != nil {
		return err
	}
	s.dispatch(ctx, rec)
	return nil
}

// ResetPassword completes the forgot-password flow: code check first, then the
// confirmation match, then the overwrite. The consumed record is deleted.
func (s *Service) ResetPassword(ctx context.Context, in ResetPasswordInput) error {
	if err := s.validate(in); err != nil {
		return err
	}
	rec, err := s.otps.FindValid(ctx, repository.OTPFilter{
		Identifier: in.Identifier,
		Kind:       models.OTPKindForgot,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrInvalidOTP
		}
		return err
	}
	if rec.Code != in.Token {
		return ErrInvalidOTP
	}
	if in.Password != in.ConfirmPassword {
		return singleIssue("confirmPassword", "Passwords do not match")
	}
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return err
	}
	if err := s.users.SetPassword(ctx, rec.UserID, hash); err != nil {
		return err
	}
	if err := s.otps.Delete(ctx, rec.ID); err != nil {
		s.logger.Warnw("failed to delete consumed reset OTP", "identifier", in.Identifier, "err", err)
	}
	return nil
}

func (s *Service) findUserOTP(ctx context.Context, userID, kind string) (*models.OTPRecord, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, ErrInvalidOTP
	}
	rec, err := s.otps.FindValid(ctx, repository.OTPFilter{UserID: oid, Kind: kind})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidOTP
		}
		return nil, err
	}
	return rec, nil
}

// issueOTP writes one verification record and hands it to the notifier.
// Best-effort: registration already committed, so failures only get logged.
func (s *Service) issueOTP(ctx context.Context, userID primitive.ObjectID, identifier, kind string) {
	rec := &models.OTPRecord{
		UserID:     userID,
		Identifier: identifier,
		Kind:       kind,
		Code:       generateCode(),
		ExpiresAt:  s.now().Add(s.otpTTL),
	}
	if err := s.otps.Create(ctx, rec); err != nil {
		s.logger.Errorw("failed to store verification OTP", "kind", kind, "user", userID.Hex(), "err", err)
		return
	}
	s.dispatch(ctx, rec)
}

func (s *Service) dispatch(ctx context.Context, rec *models.OTPRecord) {
	if s.notifier == nil {
		return
	}
	event := OTPEvent{
		UserID:     rec.UserID.Hex(),
		Identifier: rec.Identifier,
		Kind:       rec.Kind,
		Code:       rec.Code,
		ExpiresAt:  rec.ExpiresAt,
	}
	if err := s.notifier.OTPIssued(ctx, event); err != nil {
		s.logger.Warnw("OTP delivery dispatch failed", "kind", rec.Kind, "identifier", rec.Identifier, "err", err)
	}
}

func (s *Service) parseDateOfBirth(raw string) time.Time {
	if raw == "" {
		return s.now().UTC()
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC()
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t.UTC()
	}
	return s.now().UTC()
}
