package usecases

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/ksuid"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
	"p2p-lending.backend/internal/domain/entities"
	domainerrors "p2p-lending.backend/internal/domain/errors"
	"p2p-lending.backend/internal/domain/repositories"
	"p2p-lending.backend/pkg/logger"
	redispkg "p2p-lending.backend/pkg/redis"
)

const (
	// LinkSessionTTL bounds the time between bank login and OTP confirmation
	LinkSessionTTL = 5 * time.Minute

	dateLayout = "2006-01-02"
)

// BankProvider is the open-banking source plus its link handshake
type BankProvider interface {
	repositories.BankDataSource
	FindBank(bankID string) (entities.Bank, bool)
	CheckCredentials(username, password string) bool
	VerifyOTP(otp string) bool
}

// LinkSessionStore keeps pending link attempts between the two handshake steps
type LinkSessionStore interface {
	Create(ctx context.Context, transactionID string, data *redispkg.LinkSessionData, expiration time.Duration) error
	Get(ctx context.Context, transactionID string) (*redispkg.LinkSessionData, error)
	Delete(ctx context.Context, transactionID string) error
}

var (
	newLinkID      = func() string { return ksuid.New().String() }
	openBankingNow = time.Now
)

// OpenBankingUsecase links banks to users
type OpenBankingUsecase struct {
	provider BankProvider
	sessions LinkSessionStore
	connRepo repositories.BankConnectionRepository
	sealer   TokenSealer
}

func NewOpenBankingUsecase(
	provider BankProvider,
	sessions LinkSessionStore,
	connRepo repositories.BankConnectionRepository,
	sealer TokenSealer,
) *OpenBankingUsecase {
	return &OpenBankingUsecase{
		provider: provider,
		sessions: sessions,
		connRepo: connRepo,
		sealer:   sealer,
	}
}

// ListBanks returns the supported institutions
func (u *OpenBankingUsecase) ListBanks() []entities.Bank {
	return u.provider.Banks()
}

// InitiateLink checks bank credentials and opens a pending link the OTP step completes
func (u *OpenBankingUsecase) InitiateLink(ctx context.Context, userID uuid.UUID, input *entities.InitiateLinkInput) (*entities.LinkChallenge, error) {
	if _, ok := u.provider.FindBank(input.BankID); !ok {
		return nil, badRequest(domainerrors.KeyBankNotFound, domainerrors.ErrNotFound)
	}
	if !u.provider.CheckCredentials(input.Username, input.Password) {
		return nil, domainerrors.Unauthorized(domainerrors.KeyInvalidBankCredentials, "invalid bank credentials")
	}

	now := openBankingNow()
	transactionID := "req_" + newLinkID()
	data := &redispkg.LinkSessionData{
		UserID:    userID.String(),
		BankID:    input.BankID,
		Username:  input.Username,
		CreatedAt: now,
	}
	if err := u.sessions.Create(ctx, transactionID, data, LinkSessionTTL); err != nil {
		return nil, internal(err)
	}

	logger.Info(ctx, "Bank link initiated", zap.String("user_id", userID.String()), zap.String("bank_id", input.BankID))
	return &entities.LinkChallenge{TransactionID: transactionID, ExpiresAt: now.Add(LinkSessionTTL)}, nil
}

// VerifyLink completes a pending link and stores the connection
func (u *OpenBankingUsecase) VerifyLink(ctx context.Context, userID uuid.UUID, input *entities.VerifyLinkInput) (*entities.LinkResult, error) {
	session, err := u.sessions.Get(ctx, input.TransactionID)
	if err != nil {
		if errors.Is(err, redispkg.ErrLinkSessionNotFound) {
			return nil, badRequest(domainerrors.KeyInvalidTransaction, domainerrors.ErrInvalidInput)
		}
		return nil, internal(err)
	}
	if session.UserID != userID.String() {
		return nil, badRequest(domainerrors.KeyInvalidTransaction, domainerrors.ErrInvalidInput)
	}
	if !u.provider.VerifyOTP(input.OTP) {
		return nil, badRequest(domainerrors.KeyInvalidOTP, domainerrors.ErrInvalidOTP)
	}

	bank, ok := u.provider.FindBank(session.BankID)
	if !ok {
		return nil, badRequest(domainerrors.KeyBankNotFound, domainerrors.ErrNotFound)
	}

	all, err := u.provider.GetAccounts(ctx, session.Username)
	if err != nil {
		return nil, internal(err)
	}
	accounts := make([]*entities.BankAccount, 0, len(all))
	accountIDs := make([]string, 0, len(all))
	for _, acc := range all {
		if acc.BankID == session.BankID {
			accounts = append(accounts, acc)
			accountIDs = append(accountIDs, acc.ID)
		}
	}

	if err := u.sessions.Delete(ctx, input.TransactionID); err != nil {
		return nil, internal(err)
	}

	sealed, err := u.sealer.Seal(session.Username)
	if err != nil {
		return nil, internal(err)
	}
	conn := &entities.BankConnection{
		UserID:          userID,
		InstitutionID:   bank.ID,
		InstitutionName: bank.ShortName,
		ItemID:          "item_" + newLinkID(),
		AccessToken:     sealed,
		AccountIDs:      accountIDs,
		IsActive:        true,
		LastSyncedAt:    null.TimeFrom(openBankingNow()),
	}
	if err := u.connRepo.Create(ctx, conn); err != nil {
		return nil, internal(err)
	}

	logger.Info(ctx, "Bank linked",
		zap.String("user_id", userID.String()),
		zap.String("bank_id", bank.ID),
		zap.Int("accounts", len(accounts)),
	)
	return &entities.LinkResult{Connection: conn, Accounts: accounts}, nil
}

// ListConnections returns the user's linked banks
func (u *OpenBankingUsecase) ListConnections(ctx context.Context, userID uuid.UUID) ([]*entities.BankConnection, error) {
	conns, err := u.connRepo.ListActiveByUser(ctx, userID)
	if err != nil {
		return nil, internal(err)
	}
	return conns, nil
}

// Disconnect deactivates one of the user's linked banks
func (u *OpenBankingUsecase) Disconnect(ctx context.Context, userID, connectionID uuid.UUID) error {
	if err := u.connRepo.Deactivate(ctx, userID, connectionID); err != nil {
		if isNotFound(err) {
			return notFound(domainerrors.KeyNotFound)
		}
		return internal(err)
	}
	return nil
}

// activeConnection loads one of the user's live connections and opens its bank identity.
func (u *OpenBankingUsecase) activeConnection(ctx context.Context, userID, connectionID uuid.UUID) (*entities.BankConnection, string, error) {
	conn, err := u.connRepo.GetByID(ctx, connectionID)
	if err != nil {
		if isNotFound(err) {
			return nil, "", notFound(domainerrors.KeyNotFound)
		}
		return nil, "", internal(err)
	}
	if conn.UserID != userID || !conn.IsActive {
		return nil, "", notFound(domainerrors.KeyNotFound)
	}

	identity, err := u.sealer.Open(conn.AccessToken)
	if err != nil {
		return nil, "", internal(err)
	}
	return conn, identity, nil
}

// GetBalances returns the balance of every account a connection covers
func (u *OpenBankingUsecase) GetBalances(ctx context.Context, userID, connectionID uuid.UUID) ([]*entities.AccountBalance, error) {
	conn, identity, err := u.activeConnection(ctx, userID, connectionID)
	if err != nil {
		return nil, err
	}

	accounts, err := u.provider.GetAccounts(ctx, identity)
	if err != nil {
		return nil, internal(err)
	}

	linked := make(map[string]struct{}, len(conn.AccountIDs))
	for _, id := range conn.AccountIDs {
		linked[id] = struct{}{}
	}
	balances := make([]*entities.AccountBalance, 0, len(conn.AccountIDs))
	for _, acc := range accounts {
		if _, ok := linked[acc.ID]; !ok {
			continue
		}
		balances = append(balances, &entities.AccountBalance{
			AccountID:     acc.ID,
			AccountNumber: acc.AccountNumber,
			AccountName:   acc.AccountName,
			Balance:       acc.Balance,
			Currency:      acc.Currency,
		})
	}
	return balances, nil
}

// GetTransactions returns a connection's transactions inside the query window, newest first.
// A successful read marks the connection as synced.
func (u *OpenBankingUsecase) GetTransactions(ctx context.Context, userID, connectionID uuid.UUID, query *entities.TransactionQuery) ([]*entities.BankTransaction, error) {
	from, to, err := transactionWindow(query)
	if err != nil {
		return nil, err
	}

	conn, _, err := u.activeConnection(ctx, userID, connectionID)
	if err != nil {
		return nil, err
	}

	txs := make([]*entities.BankTransaction, 0)
	for _, accountID := range conn.AccountIDs {
		accountTxs, err := u.provider.GetTransactions(ctx, accountID)
		if err != nil {
			return nil, internal(err)
		}
		for _, tx := range accountTxs {
			if !from.IsZero() && tx.Date.Before(from) {
				continue
			}
			if !to.IsZero() && !tx.Date.Before(to) {
				continue
			}
			txs = append(txs, tx)
		}
	}
	sort.SliceStable(txs, func(i, j int) bool { return txs[i].Date.After(txs[j].Date) })

	if err := u.connRepo.TouchSynced(ctx, conn.ID); err != nil {
		logger.Warn(ctx, "Failed to mark bank connection synced", zap.String("connection_id", conn.ID.String()), zap.Error(err))
	}
	return txs, nil
}

// transactionWindow turns the day bounds into [from, to). The end day is inclusive.
func transactionWindow(query *entities.TransactionQuery) (time.Time, time.Time, error) {
	var from, to time.Time
	if query == nil {
		return from, to, nil
	}
	if query.StartDate != "" {
		d, err := time.Parse(dateLayout, query.StartDate)
		if err != nil {
			return from, to, badRequest(domainerrors.KeyBadRequest, domainerrors.ErrInvalidInput)
		}
		from = d
	}
	if query.EndDate != "" {
		d, err := time.Parse(dateLayout, query.EndDate)
		if err != nil {
			return from, to, badRequest(domainerrors.KeyBadRequest, domainerrors.ErrInvalidInput)
		}
		to = d.AddDate(0, 0, 1)
	}
	if !from.IsZero() && !to.IsZero() && !from.Before(to) {
		return from, to, badRequest(domainerrors.KeyBadRequest, domainerrors.ErrInvalidInput)
	}
	return from, to, nil
}
