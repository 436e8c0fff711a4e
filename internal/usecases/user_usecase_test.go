package usecases_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"p2p-lending.backend/internal/domain/entities"
	domainerrors "p2p-lending.backend/internal/domain/errors"
	"p2p-lending.backend/internal/usecases"
)

type userDeps struct {
	users    *MockUserRepository
	sessions *MockSessionRepository
	uow      *MockUnitOfWork
}

func newUserUsecaseForTest() (*usecases.UserUsecase, *userDeps) {
	d := &userDeps{
		users:    new(MockUserRepository),
		sessions: new(MockSessionRepository),
		uow:      new(MockUnitOfWork),
	}
	return usecases.NewUserUsecase(d.users, d.sessions, d.uow), d
}

func member(status entities.UserStatus) *entities.User {
	return &entities.User{
		ID:     uuid.New(),
		Email:  "member@mail.com",
		Role:   entities.UserRoleUser,
		Status: status,
	}
}

func TestUserUsecase_List(t *testing.T) {
	uc, d := newUserUsecaseForTest()
	ctx := context.Background()
	users := []*entities.User{member(entities.UserStatusActive)}

	d.users.On("List", ctx, entities.UserFilter{
		Search: "nguyen",
		Status: entities.UserStatusActive,
		Limit:  20,
		Offset: 40,
	}).Return(users, int64(41), nil).Once()

	page, err := uc.List(ctx, entities.UserFilter{Search: "  nguyen ", Status: entities.UserStatusActive}, 3, 20)
	require.NoError(t, err)
	assert.Equal(t, users, page.Items)
	assert.Equal(t, 3, page.Meta.TotalPages)
	d.users.AssertExpectations(t)
}

func TestUserUsecase_Detail(t *testing.T) {
	ctx := context.Background()

	t.Run("missing", func(t *testing.T) {
		uc, d := newUserUsecaseForTest()
		id := uuid.New()
		d.users.On("GetByID", ctx, id).Return(nil, domainerrors.ErrNotFound).Once()

		_, err := uc.Detail(ctx, id)
		requireAppError(t, err, http.StatusNotFound, domainerrors.KeyUserNotFound)
	})

	t.Run("db failure", func(t *testing.T) {
		uc, d := newUserUsecaseForTest()
		id := uuid.New()
		d.users.On("GetByID", ctx, id).Return(nil, errors.New("db down")).Once()

		_, err := uc.Detail(ctx, id)
		requireAppError(t, err, http.StatusInternalServerError, domainerrors.KeyInternalServerError)
	})
}

func TestUserUsecase_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("email taken", func(t *testing.T) {
		uc, d := newUserUsecaseForTest()
		user := member(entities.UserStatusActive)
		email := "taken@mail.com"
		d.users.On("GetByID", ctx, user.ID).Return(user, nil).Once()
		d.users.On("GetByEmail", ctx, email).Return(&entities.User{ID: uuid.New()}, nil).Once()

		_, err := uc.Update(ctx, user.ID, &entities.AdminUpdateUserInput{Email: &email})
		requireAppError(t, err, http.StatusBadRequest, domainerrors.KeyEmailExist)
		d.users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("same email skips the lookup", func(t *testing.T) {
		uc, d := newUserUsecaseForTest()
		user := member(entities.UserStatusActive)
		email := "Member@Mail.com"
		role := entities.UserRoleAdmin
		d.users.On("GetByID", ctx, user.ID).Return(user, nil).Once()
		d.users.On("Update", ctx, user).Return(nil).Once()

		got, err := uc.Update(ctx, user.ID, &entities.AdminUpdateUserInput{Email: &email, Role: &role})
		require.NoError(t, err)
		assert.Equal(t, entities.UserRoleAdmin, got.Role)
		d.users.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
	})

	t.Run("new email and profile", func(t *testing.T) {
		uc, d := newUserUsecaseForTest()
		user := member(entities.UserStatusActive)
		email := "fresh@mail.com"
		bio := "lender"
		d.users.On("GetByID", ctx, user.ID).Return(user, nil).Once()
		d.users.On("GetByEmail", ctx, email).Return(nil, domainerrors.ErrNotFound).Once()
		d.users.On("Update", ctx, user).Return(nil).Once()

		got, err := uc.Update(ctx, user.ID, &entities.AdminUpdateUserInput{
			Email:              &email,
			UpdateProfileInput: entities.UpdateProfileInput{Bio: &bio},
		})
		require.NoError(t, err)
		assert.Equal(t, email, got.Email)
		assert.Equal(t, "lender", got.Bio.String)
	})
}

func TestUserUsecase_Delete(t *testing.T) {
	ctx := context.Background()
	actor := uuid.New()

	t.Run("self", func(t *testing.T) {
		uc, d := newUserUsecaseForTest()
		err := uc.Delete(ctx, actor, actor)
		requireAppError(t, err, http.StatusBadRequest, domainerrors.KeyCannotModifySelf)
		d.uow.AssertNotCalled(t, "Do", mock.Anything, mock.Anything)
	})

	t.Run("soft deletes and ends sessions in one transaction", func(t *testing.T) {
		uc, d := newUserUsecaseForTest()
		user := member(entities.UserStatusActive)
		d.users.On("GetByID", ctx, user.ID).Return(user, nil).Once()
		d.uow.On("Do", ctx, mock.Anything).Once()
		d.users.On("SoftDelete", ctx, user.ID, actor).Return(nil).Once()
		d.sessions.On("DeactivateAll", ctx, user.ID).Return(int64(2), nil).Once()

		require.NoError(t, uc.Delete(ctx, actor, user.ID))
		d.uow.AssertExpectations(t)
		d.users.AssertExpectations(t)
		d.sessions.AssertExpectations(t)
	})

	t.Run("session failure surfaces", func(t *testing.T) {
		uc, d := newUserUsecaseForTest()
		user := member(entities.UserStatusActive)
		d.users.On("GetByID", ctx, user.ID).Return(user, nil).Once()
		d.uow.On("Do", ctx, mock.Anything).Once()
		d.users.On("SoftDelete", ctx, user.ID, actor).Return(nil).Once()
		d.sessions.On("DeactivateAll", ctx, user.ID).Return(int64(0), errors.New("db down")).Once()

		err := uc.Delete(ctx, actor, user.ID)
		requireAppError(t, err, http.StatusInternalServerError, domainerrors.KeyInternalServerError)
	})

	t.Run("missing", func(t *testing.T) {
		uc, d := newUserUsecaseForTest()
		id := uuid.New()
		d.users.On("GetByID", ctx, id).Return(nil, domainerrors.ErrNotFound).Once()

		err := uc.Delete(ctx, actor, id)
		requireAppError(t, err, http.StatusNotFound, domainerrors.KeyUserNotFound)
	})
}

func TestUserUsecase_StatusTransitions(t *testing.T) {
	ctx := context.Background()
	actor := uuid.New()

	type op func(*usecases.UserUsecase, uuid.UUID) (*entities.User, error)
	suspend := func(uc *usecases.UserUsecase, id uuid.UUID) (*entities.User, error) { return uc.Suspend(ctx, actor, id) }
	activate := func(uc *usecases.UserUsecase, id uuid.UUID) (*entities.User, error) { return uc.Activate(ctx, actor, id) }
	ban := func(uc *usecases.UserUsecase, id uuid.UUID) (*entities.User, error) { return uc.Ban(ctx, actor, id) }

	accepted := []struct {
		name string
		run  op
		from entities.UserStatus
		to   entities.UserStatus
	}{
		{"suspend active", suspend, entities.UserStatusActive, entities.UserStatusSuspended},
		{"suspend banned", suspend, entities.UserStatusBanned, entities.UserStatusSuspended},
		{"activate suspended", activate, entities.UserStatusSuspended, entities.UserStatusActive},
		{"activate banned", activate, entities.UserStatusBanned, entities.UserStatusActive},
		{"ban active", ban, entities.UserStatusActive, entities.UserStatusBanned},
	}
	for _, tc := range accepted {
		t.Run(tc.name, func(t *testing.T) {
			uc, d := newUserUsecaseForTest()
			user := member(tc.from)
			d.users.On("GetByID", ctx, user.ID).Return(user, nil).Once()
			d.users.On("UpdateStatus", ctx, user.ID, tc.to).Return(nil).Once()

			got, err := tc.run(uc, user.ID)
			require.NoError(t, err)
			assert.Equal(t, tc.to, got.Status)
			d.users.AssertExpectations(t)
		})
	}

	rejected := []struct {
		name  string
		run   op
		setup func(*entities.User)
		key   string
	}{
		{"suspend twice", suspend, func(u *entities.User) { u.Status = entities.UserStatusSuspended }, domainerrors.KeyStatusInvalid},
		{"activate active", activate, nil, domainerrors.KeyStatusInvalid},
		{"ban twice", ban, func(u *entities.User) { u.Status = entities.UserStatusBanned }, domainerrors.KeyStatusInvalid},
		{"suspend admin", suspend, func(u *entities.User) { u.Role = entities.UserRoleAdmin }, domainerrors.KeyCannotModifyAdmin},
		{"ban super admin", ban, func(u *entities.User) { u.Role = entities.UserRoleSuperAdmin }, domainerrors.KeyCannotModifyAdmin},
	}
	for _, tc := range rejected {
		t.Run(tc.name, func(t *testing.T) {
			uc, d := newUserUsecaseForTest()
			user := member(entities.UserStatusActive)
			if tc.setup != nil {
				tc.setup(user)
			}
			d.users.On("GetByID", ctx, user.ID).Return(user, nil).Once()

			_, err := tc.run(uc, user.ID)
			requireAppError(t, err, http.StatusBadRequest, tc.key)
			d.users.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
		})
	}

	t.Run("activate admin is allowed", func(t *testing.T) {
		uc, d := newUserUsecaseForTest()
		user := member(entities.UserStatusSuspended)
		user.Role = entities.UserRoleAdmin
		d.users.On("GetByID", ctx, user.ID).Return(user, nil).Once()
		d.users.On("UpdateStatus", ctx, user.ID, entities.UserStatusActive).Return(nil).Once()

		_, err := uc.Activate(ctx, actor, user.ID)
		require.NoError(t, err)
	})

	for name, run := range map[string]op{"suspend": suspend, "activate": activate, "ban": ban} {
		t.Run(name+" self", func(t *testing.T) {
			uc, d := newUserUsecaseForTest()
			_, err := run(uc, actor)
			requireAppError(t, err, http.StatusBadRequest, domainerrors.KeyCannotModifySelf)
			d.users.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
		})
	}
}
