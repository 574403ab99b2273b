package identity

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/rajeshmondalofficial/rentmate-backend/internal/auth"
	"github.com/rajeshmondalofficial/rentmate-backend/internal/models"
	"github.com/rajeshmondalofficial/rentmate-backend/internal/repository"
)

type fakeUserRepo struct {
	users map[primitive.ObjectID]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[primitive.ObjectID]*models.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, u *models.User) error {
	for _, existing := range r.users {
		if existing.Email == u.Email || existing.Phone == u.Phone {
			return repository.ErrAlreadyExists
		}
	}
	u.ID = primitive.NewObjectID()
	clone := *u
	r.users[u.ID] = &clone
	return nil
}

func (r *fakeUserRepo) FindByID(_ context.Context, id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	u, ok := r.users[oid]
	if !ok {
		return nil, repository.ErrNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) FindByIdentifier(_ context.Context, identifier string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == identifier || u.Phone == identifier {
			clone := *u
			return &clone, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) ExistsByEmailOrPhone(_ context.Context, email, phone string) (bool, error) {
	for _, u := range r.users {
		if u.Email == email || u.Phone == phone {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeUserRepo) Update(_ context.Context, id string, set bson.M) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, repository.ErrNotFound
	}
	u, ok := r.users[oid]
	if !ok {
		return nil, repository.ErrNotFound
	}
	// mirror the unique indexes on email and phone
	for _, other := range r.users {
		if other.ID == oid {
			continue
		}
		if v, ok := set["email"]; ok && other.Email == v.(string) {
			return nil, repository.ErrAlreadyExists
		}
		if v, ok := set["phone"]; ok && other.Phone == v.(string) {
			return nil, repository.ErrAlreadyExists
		}
	}
	for k, v := range set {
		switch k {
		case "firstName":
			u.FirstName = v.(string)
		case "lastName":
			u.LastName = v.(string)
		case "email":
			u.Email = v.(string)
		case "phone":
			u.Phone = v.(string)
		case "gender":
			u.Gender = v.(string)
		case "dateOfBirth":
			u.DateOfBirth = v.(time.Time)
		case "twoStepEnabled":
			u.TwoStepEnabled = v.(bool)
		case "profileImage":
			u.ProfileImage = v.(string)
		}
	}
	clone := *u
	return &clone, nil
}

func (r *fakeUserRepo) SetPassword(_ context.Context, id primitive.ObjectID, hash string) error {
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.PasswordHash = hash
	return nil
}

func (r *fakeUserRepo) MarkEmailVerified(_ context.Context, id primitive.ObjectID) error {
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.IsEmailVerified = true
	return nil
}

func (r *fakeUserRepo) MarkPhoneVerified(_ context.Context, id primitive.ObjectID) error {
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.IsPhoneVerified = true
	return nil
}

type fakeOTPRepo struct {
	records map[primitive.ObjectID]*models.OTPRecord
}

func newFakeOTPRepo() *fakeOTPRepo {
	return &fakeOTPRepo{records: map[primitive.ObjectID]*models.OTPRecord{}}
}

func (r *fakeOTPRepo) Create(_ context.Context, rec *models.OTPRecord) error {
	rec.ID = primitive.NewObjectID()
	clone := *rec
	r.records[rec.ID] = &clone
	return nil
}

func (r *fakeOTPRepo) FindValid(_ context.Context, f repository.OTPFilter) (*models.OTPRecord, error) {
	now := time.Now()
	for _, rec := range r.records {
		if rec.Kind != f.Kind {
			continue
		}
		if !f.UserID.IsZero() && rec.UserID != f.UserID {
			continue
		}
		if f.Identifier != "" && rec.Identifier != f.Identifier {
			continue
		}
		if rec.Expired(now) {
			continue
		}
		clone := *rec
		return &clone, nil
	}
	return nil, repository.ErrNotFound
}

func (r *fakeOTPRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	delete(r.records, id)
	return nil
}

func (r *fakeOTPRepo) CountValid(ctx context.Context, f repository.OTPFilter) (int64, error) {
	var n int64
	now := time.Now()
	for _, rec := range r.records {
		if rec.Kind != f.Kind {
			continue
		}
		if !f.UserID.IsZero() && rec.UserID != f.UserID {
			continue
		}
		if f.Identifier != "" && rec.Identifier != f.Identifier {
			continue
		}
		if rec.Expired(now) {
			continue
		}
		n++
	}
	return n, nil
}

type capturingNotifier struct {
	events []OTPEvent
}

func (n *capturingNotifier) OTPIssued(_ context.Context, event OTPEvent) error {
	n.events = append(n.events, event)
	return nil
}

type fixture struct {
	svc      *Service
	users    *fakeUserRepo
	otps     *fakeOTPRepo
	notifier *capturingNotifier
	tokens   *auth.TokenManager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	users := newFakeUserRepo()
	otps := newFakeOTPRepo()
	notifier := &capturingNotifier{}
	tokens := auth.NewTokenManager("test-secret")
	svc := NewService(users, otps, auth.NewHasher(), tokens, notifier, zap.NewNop().Sugar(), 10*time.Minute)
	return &fixture{svc: svc, users: users, otps: otps, notifier: notifier, tokens: tokens}
}

func validRegisterInput() RegisterInput {
	return RegisterInput{
		FirstName:       "Asha",
		LastName:        "Nair",
		Email:           "a@x.com",
		Phone:           "111-222-3333",
		Password:        "superpass123",
		ConfirmPassword: "superpass123",
		Gender:          "Female",
	}
}

func TestRegisterCreatesUnverifiedUserWithTwoOTPs(t *testing.T) {
	f := newFixture(t)

	user, err := f.svc.Register(context.Background(), validRegisterInput())
	require.NoError(t, err)
	require.NotNil(t, user)

	assert.False(t, user.IsEmailVerified)
	assert.False(t, user.IsPhoneVerified)
	assert.NotEqual(t, "superpass123", user.PasswordHash)
	assert.True(t, strings.HasPrefix(user.PasswordHash, "$2"))

	emailCount, _ := f.otps.CountValid(context.Background(), repository.OTPFilter{UserID: user.ID, Kind: models.OTPKindEmail})
	phoneCount, _ := f.otps.CountValid(context.Background(), repository.OTPFilter{UserID: user.ID, Kind: models.OTPKindPhone})
	assert.EqualValues(t, 1, emailCount)
	assert.EqualValues(t, 1, phoneCount)

	require.Len(t, f.notifier.events, 2)
	for _, ev := range f.notifier.events {
		assert.Len(t, ev.Code, 4)
	}
}

func TestRegisterDuplicateEmailOrPhoneConflicts(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Register(context.Background(), validRegisterInput())
	require.NoError(t, err)

	dup := validRegisterInput()
	dup.Phone = "999-888-7777"
	_, err = f.svc.Register(context.Background(), dup)
	assert.ErrorIs(t, err, ErrConflict)

	dup = validRegisterInput()
	dup.Email = "other@x.com"
	_, err = f.svc.Register(context.Background(), dup)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestRegisterPasswordMismatchFailsValidation(t *testing.T) {
	f := newFixture(t)
	in := validRegisterInput()
	in.ConfirmPassword = "1234567890x"

	_, err := f.svc.Register(context.Background(), in)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Issues, 1)
	assert.Equal(t, "confirmPassword", verr.Issues[0].Field)
}

func TestRegisterReportsAllViolations(t *testing.T) {
	f := newFixture(t)
	in := RegisterInput{
		Email:           "not-an-email",
		Phone:           "1234567890",
		Password:        "short",
		ConfirmPassword: "short",
	}

	_, err := f.svc.Register(context.Background(), in)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.GreaterOrEqual(t, len(verr.Issues), 5)
}

func TestVerifyPhoneOTPConsumesRecord(t *testing.T) {
	f := newFixture(t)
	user, err := f.svc.Register(context.Background(), validRegisterInput())
	require.NoError(t, err)

	rec, err := f.otps.FindValid(context.Background(), repository.OTPFilter{UserID: user.ID, Kind: models.OTPKindPhone})
	require.NoError(t, err)

	require.NoError(t, f.svc.VerifyPhoneOTP(context.Background(), user.ID.Hex(), rec.Code))

	stored, err := f.users.FindByID(context.Background(), user.ID.Hex())
	require.NoError(t, err)
	assert.True(t, stored.IsPhoneVerified)

	count, _ := f.otps.CountValid(context.Background(), repository.OTPFilter{UserID: user.ID, Kind: models.OTPKindPhone})
	assert.EqualValues(t, 0, count)
}

func TestVerifyPhoneOTPWrongCode(t *testing.T) {
	f := newFixture(t)
	user, err := f.svc.Register(context.Background(), validRegisterInput())
	require.NoError(t, err)

	rec, err := f.otps.FindValid(context.Background(), repository.OTPFilter{UserID: user.ID, Kind: models.OTPKindPhone})
	require.NoError(t, err)

	wrong := "0000"
	if rec.Code == wrong {
		wrong = "0001"
	}
	assert.ErrorIs(t, f.svc.VerifyPhoneOTP(context.Background(), user.ID.Hex(), wrong), ErrInvalidOTP)

	stored, err := f.users.FindByID(context.Background(), user.ID.Hex())
	require.NoError(t, err)
	assert.False(t, stored.IsPhoneVerified)
}

func TestVerifyPhoneOTPExpiredRecord(t *testing.T) {
	f := newFixture(t)
	userID := primitive.NewObjectID()
	f.users.users[userID] = &models.User{ID: userID, Email: "e@x.com", Phone: "111-222-3333"}
	require.NoError(t, f.otps.Create(context.Background(), &models.OTPRecord{
		UserID:    userID,
		Kind:      models.OTPKindPhone,
		Code:      "1234",
		ExpiresAt: time.Now().Add(-time.Minute),
	}))

	assert.ErrorIs(t, f.svc.VerifyPhoneOTP(context.Background(), userID.Hex(), "1234"), ErrInvalidOTP)
}

func TestVerifyEmailOTPKeepsRecord(t *testing.T) {
	f := newFixture(t)
	user, err := f.svc.Register(context.Background(), validRegisterInput())
	require.NoError(t, err)

	rec, err := f.otps.FindValid(context.Background(), repository.OTPFilter{UserID: user.ID, Kind: models.OTPKindEmail})
	require.NoError(t, err)

	require.NoError(t, f.svc.VerifyEmailOTP(context.Background(), user.ID.Hex(), rec.Code))

	stored, err := f.users.FindByID(context.Background(), user.ID.Hex())
	require.NoError(t, err)
	assert.True(t, stored.IsEmailVerified)

	// the email record survives verification until it expires
	count, _ := f.otps.CountValid(context.Background(), repository.OTPFilter{UserID: user.ID, Kind: models.OTPKindEmail})
	assert.EqualValues(t, 1, count)

	require.NoError(t, f.svc.VerifyEmailOTP(context.Background(), user.ID.Hex(), rec.Code))
}

func TestLoginOutcomes(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Register(context.Background(), validRegisterInput())
	require.NoError(t, err)

	_, _, err = f.svc.Login(context.Background(), "nobody@x.com", "superpass123")
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, _, err = f.svc.Login(context.Background(), "a@x.com", "wrongpass1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	token, user, err := f.svc.Login(context.Background(), "a@x.com", "superpass123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := f.tokens.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.Hex(), claims.UserID)
	assert.Equal(t, user.Email, claims.Email)
	assert.Equal(t, user.FirstName, claims.FirstName)
}

func TestForgotAndResetPasswordFlow(t *testing.T) {
	f := newFixture(t)
	user, err := f.svc.Register(context.Background(), validRegisterInput())
	require.NoError(t, err)

	require.NoError(t, f.svc.ForgotPassword(context.Background(), "a@x.com"))
	count, _ := f.otps.CountValid(context.Background(), repository.OTPFilter{Identifier: "a@x.com", Kind: models.OTPKindForgot})
	require.EqualValues(t, 1, count)

	rec, err := f.otps.FindValid(context.Background(), repository.OTPFilter{Identifier: "a@x.com", Kind: models.OTPKindForgot})
	require.NoError(t, err)
	assert.Equal(t, user.ID, rec.UserID)

	err = f.svc.ResetPassword(context.Background(), ResetPasswordInput{
		Identifier:      "a@x.com",
		Token:           rec.Code,
		Password:        "newpass123",
		ConfirmPassword: "newpass123",
	})
	require.NoError(t, err)

	_, _, err = f.svc.Login(context.Background(), "a@x.com", "superpass123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = f.svc.Login(context.Background(), "a@x.com", "newpass123")
	assert.NoError(t, err)

	count, _ = f.otps.CountValid(context.Background(), repository.OTPFilter{Identifier: "a@x.com", Kind: models.OTPKindForgot})
	assert.EqualValues(t, 0, count)
}

func TestForgotPasswordByPhone(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Register(context.Background(), validRegisterInput())
	require.NoError(t, err)

	require.NoError(t, f.svc.ForgotPassword(context.Background(), "111-222-3333"))
	count, _ := f.otps.CountValid(context.Background(), repository.OTPFilter{Identifier: "111-222-3333", Kind: models.OTPKindForgot})
	assert.EqualValues(t, 1, count)
}

func TestForgotPasswordUnknownIdentifier(t *testing.T) {
	f := newFixture(t)
	assert.ErrorIs(t, f.svc.ForgotPassword(context.Background(), "ghost@x.com"), ErrUserNotFound)
}

func TestResetPasswordBadTokenNeverMutates(t *testing.T) {
	f := newFixture(t)
	user, err := f.svc.Register(context.Background(), validRegisterInput())
	require.NoError(t, err)
	require.NoError(t, f.svc.ForgotPassword(context.Background(), "a@x.com"))

	rec, err := f.otps.FindValid(context.Background(), repository.OTPFilter{Identifier: "a@x.com", Kind: models.OTPKindForgot})
	require.NoError(t, err)

	wrong := "0000"
	if rec.Code == wrong {
		wrong = "0001"
	}
	err = f.svc.ResetPassword(context.Background(), ResetPasswordInput{
		Identifier:      "a@x.com",
		Token:           wrong,
		Password:        "newpass123",
		ConfirmPassword: "newpass123",
	})
	assert.ErrorIs(t, err, ErrInvalidOTP)

	stored, _ := f.users.FindByID(context.Background(), user.ID.Hex())
	_, _, err = f.svc.Login(context.Background(), stored.Email, "superpass123")
	assert.NoError(t, err)
}

func TestResetPasswordExpiredToken(t *testing.T) {
	f := newFixture(t)
	user, err := f.svc.Register(context.Background(), validRegisterInput())
	require.NoError(t, err)
	require.NoError(t, f.otps.Create(context.Background(), &models.OTPRecord{
		UserID:     user.ID,
		Identifier: "a@x.com",
		Kind:       models.OTPKindForgot,
		Code:       "4321",
		ExpiresAt:  time.Now().Add(-time.Minute),
	}))

	err = f.svc.ResetPassword(context.Background(), ResetPasswordInput{
		Identifier:      "a@x.com",
		Token:           "4321",
		Password:        "newpass123",
		ConfirmPassword: "newpass123",
	})
	assert.ErrorIs(t, err, ErrInvalidOTP)
}

func TestResetPasswordConfirmMismatch(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Register(context.Background(), validRegisterInput())
	require.NoError(t, err)
	require.NoError(t, f.svc.ForgotPassword(context.Background(), "a@x.com"))

	rec, err := f.otps.FindValid(context.Background(), repository.OTPFilter{Identifier: "a@x.com", Kind: models.OTPKindForgot})
	require.NoError(t, err)

	err = f.svc.ResetPassword(context.Background(), ResetPasswordInput{
		Identifier:      "a@x.com",
		Token:           rec.Code,
		Password:        "newpass123",
		ConfirmPassword: "different123",
	})
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestUpdateProfileMergesFields(t *testing.T) {
	f := newFixture(t)
	user, err := f.svc.Register(context.Background(), validRegisterInput())
	require.NoError(t, err)

	first := "Meera"
	updated, err := f.svc.UpdateProfile(context.Background(), user.ID.Hex(), UpdateProfileInput{FirstName: &first}, "avatar.png")
	require.NoError(t, err)
	assert.Equal(t, "Meera", updated.FirstName)
	assert.Equal(t, "Nair", updated.LastName)
	assert.Equal(t, "avatar.png", updated.ProfileImage)
}

func TestUpdateProfileRejectsBadEmail(t *testing.T) {
	f := newFixture(t)
	user, err := f.svc.Register(context.Background(), validRegisterInput())
	require.NoError(t, err)

	bad := "nope"
	_, err = f.svc.UpdateProfile(context.Background(), user.ID.Hex(), UpdateProfileInput{Email: &bad}, "")
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestUpdateProfileTakenEmailConflicts(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Register(context.Background(), validRegisterInput())
	require.NoError(t, err)

	second := validRegisterInput()
	second.Email = "b@x.com"
	second.Phone = "444-555-6666"
	user, err := f.svc.Register(context.Background(), second)
	require.NoError(t, err)

	taken := "a@x.com"
	_, err = f.svc.UpdateProfile(context.Background(), user.ID.Hex(), UpdateProfileInput{Email: &taken}, "")
	assert.ErrorIs(t, err, ErrConflict)

	stored, err := f.users.FindByID(context.Background(), user.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "b@x.com", stored.Email)
}

func TestProfileUnknownUser(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Profile(context.Background(), primitive.NewObjectID().Hex())
	assert.ErrorIs(t, err, ErrUserNotFound)
}
