package usecases_test

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"p2p-lending.backend/internal/domain/entities"
	domainerrors "p2p-lending.backend/internal/domain/errors"
	"p2p-lending.backend/internal/infrastructure/mail"
	redispkg "p2p-lending.backend/pkg/redis"
)

func requireAppError(t *testing.T, err error, code int, key string) {
	t.Helper()
	appErr, ok := domainerrors.As(err)
	require.True(t, ok, "expected *AppError, got %v", err)
	assert.Equal(t, code, appErr.Code)
	assert.Equal(t, key, appErr.Key)
}

// Mock UnitOfWork
type MockUnitOfWork struct {
	mock.Mock
}

func (m *MockUnitOfWork) Do(ctx context.Context, f func(context.Context) error) error {
	m.Called(ctx, f)
	return f(ctx)
}

// Mock UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *entities.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*entities.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) GetByPhone(ctx context.Context, phone string) (*entities.User, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *entities.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entities.UserStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockUserRepository) MarkVerified(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) SoftDelete(ctx context.Context, id, deletedBy uuid.UUID) error {
	args := m.Called(ctx, id, deletedBy)
	return args.Error(0)
}

func (m *MockUserRepository) List(ctx context.Context, filter entities.UserFilter) ([]*entities.User, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.User), args.Get(1).(int64), args.Error(2)
}

// Mock SessionRepository
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) FindTrusted(ctx context.Context, userID uuid.UUID, deviceID string) (*entities.Session, error) {
	args := m.Called(ctx, userID, deviceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Session), args.Error(1)
}

func (m *MockSessionRepository) Upsert(ctx context.Context, in *entities.SessionUpsert) (*entities.Session, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Session), args.Error(1)
}

func (m *MockSessionRepository) ListActive(ctx context.Context, userID uuid.UUID) ([]*entities.Session, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Session), args.Error(1)
}

func (m *MockSessionRepository) Untrust(ctx context.Context, userID uuid.UUID, deviceID string) error {
	args := m.Called(ctx, userID, deviceID)
	return args.Error(0)
}

func (m *MockSessionRepository) Deactivate(ctx context.Context, userID uuid.UUID, deviceID string) error {
	args := m.Called(ctx, userID, deviceID)
	return args.Error(0)
}

func (m *MockSessionRepository) DeactivateAll(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSessionRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

// Mock CodeCache
type MockCodeCache struct {
	mock.Mock
}

func (m *MockCodeCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCodeCache) Get(ctx context.Context, key string) (string, bool, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Bool(1), args.Error(2)
}

func (m *MockCodeCache) Del(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCodeCache) Consume(ctx context.Context, key, value string) (bool, error) {
	args := m.Called(ctx, key, value)
	return args.Bool(0), args.Error(1)
}

// Mock Mailer
type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Dispatch(msg mail.Message) {
	m.Called(msg)
}

// Mock CreditScoreRepository
type MockCreditScoreRepository struct {
	mock.Mock
}

func (m *MockCreditScoreRepository) Create(ctx context.Context, score *entities.CreditScore) error {
	args := m.Called(ctx, score)
	return args.Error(0)
}

func (m *MockCreditScoreRepository) GetLatest(ctx context.Context, userID uuid.UUID) (*entities.CreditScore, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.CreditScore), args.Error(1)
}

func (m *MockCreditScoreRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*entities.CreditScore, int64, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.CreditScore), args.Get(1).(int64), args.Error(2)
}

// Mock BankConnectionRepository
type MockBankConnectionRepository struct {
	mock.Mock
}

func (m *MockBankConnectionRepository) Create(ctx context.Context, conn *entities.BankConnection) error {
	args := m.Called(ctx, conn)
	return args.Error(0)
}

func (m *MockBankConnectionRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.BankConnection, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.BankConnection), args.Error(1)
}

func (m *MockBankConnectionRepository) ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]*entities.BankConnection, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.BankConnection), args.Error(1)
}

func (m *MockBankConnectionRepository) Deactivate(ctx context.Context, userID, id uuid.UUID) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *MockBankConnectionRepository) TouchSynced(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// Mock BankDataSource
type MockBankDataSource struct {
	mock.Mock
}

func (m *MockBankDataSource) Banks() []entities.Bank {
	args := m.Called()
	return args.Get(0).([]entities.Bank)
}

func (m *MockBankDataSource) GetAccounts(ctx context.Context, identity string) ([]*entities.BankAccount, error) {
	args := m.Called(ctx, identity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.BankAccount), args.Error(1)
}

func (m *MockBankDataSource) GetTransactions(ctx context.Context, accountID string) ([]*entities.BankTransaction, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.BankTransaction), args.Error(1)
}

// Mock LinkSessionStore
type MockLinkSessionStore struct {
	mock.Mock
}

func (m *MockLinkSessionStore) Create(ctx context.Context, transactionID string, data *redispkg.LinkSessionData, expiration time.Duration) error {
	args := m.Called(ctx, transactionID, data, expiration)
	return args.Error(0)
}

func (m *MockLinkSessionStore) Get(ctx context.Context, transactionID string) (*redispkg.LinkSessionData, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*redispkg.LinkSessionData), args.Error(1)
}

func (m *MockLinkSessionStore) Delete(ctx context.Context, transactionID string) error {
	args := m.Called(ctx, transactionID)
	return args.Error(0)
}

// Mock TokenSealer
type MockTokenSealer struct {
	mock.Mock
}

func (m *MockTokenSealer) Seal(plaintext string) (string, error) {
	args := m.Called(plaintext)
	return args.String(0), args.Error(1)
}

func (m *MockTokenSealer) Open(sealed string) (string, error) {
	args := m.Called(sealed)
	return args.String(0), args.Error(1)
}

// Mock ContactRepository
type MockContactRepository struct {
	mock.Mock
}

func (m *MockContactRepository) Create(ctx context.Context, contact *entities.Contact) error {
	args := m.Called(ctx, contact)
	return args.Error(0)
}

func (m *MockContactRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Contact, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Contact), args.Error(1)
}

func (m *MockContactRepository) List(ctx context.Context, filter entities.ContactFilter) ([]*entities.Contact, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*entities.Contact), args.Get(1).(int64), args.Error(2)
}

func (m *MockContactRepository) MarkResponded(ctx context.Context, id, respondedBy uuid.UUID, response string) error {
	args := m.Called(ctx, id, respondedBy, response)
	return args.Error(0)
}

func (m *MockContactRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// Mock FileRepository
type MockFileRepository struct {
	mock.Mock
}

func (m *MockFileRepository) Create(ctx context.Context, file *entities.File) error {
	args := m.Called(ctx, file)
	return args.Error(0)
}

func (m *MockFileRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.File, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.File), args.Error(1)
}

func (m *MockFileRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*entities.File, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.File), args.Error(1)
}

func (m *MockFileRepository) DeleteByIDs(ctx context.Context, ids []uuid.UUID) (int64, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).(int64), args.Error(1)
}

// memStorage is an in-memory FileStorage that records what it holds
type memStorage struct {
	objects map[string][]byte
	putErr  error
	deleted []string
}

func newMemStorage() *memStorage {
	return &memStorage{objects: map[string][]byte{}}
}

func (s *memStorage) Put(_ context.Context, key string, r io.Reader) (string, error) {
	if s.putErr != nil {
		return "", s.putErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	s.objects[key] = data
	return "/uploads/" + key, nil
}

func (s *memStorage) Delete(_ context.Context, key string) error {
	delete(s.objects, key)
	s.deleted = append(s.deleted, key)
	return nil
}

func (s *memStorage) Provider() string { return "memory" }
