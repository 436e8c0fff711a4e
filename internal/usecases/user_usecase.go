package usecases

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"p2p-lending.backend/internal/domain/entities"
	domainerrors "p2p-lending.backend/internal/domain/errors"
	"p2p-lending.backend/internal/domain/repositories"
	"p2p-lending.backend/pkg/logger"
	"p2p-lending.backend/pkg/utils"
)

// UserUsecase is the admin-side user management
type UserUsecase struct {
	userRepo    repositories.UserRepository
	sessionRepo repositories.SessionRepository
	uow         repositories.UnitOfWork
}

func NewUserUsecase(
	userRepo repositories.UserRepository,
	sessionRepo repositories.SessionRepository,
	uow repositories.UnitOfWork,
) *UserUsecase {
	return &UserUsecase{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		uow:         uow,
	}
}

// List pages through users matching filter. Limit and Offset on filter are overwritten.
func (u *UserUsecase) List(ctx context.Context, filter entities.UserFilter, page, limit int) (utils.Page[*entities.User], error) {
	p := utils.GetPaginationParams(page, limit)
	filter.Search = strings.TrimSpace(filter.Search)
	filter.Limit = p.Limit
	filter.Offset = p.CalculateOffset()

	users, total, err := u.userRepo.List(ctx, filter)
	if err != nil {
		return utils.Page[*entities.User]{}, internal(err)
	}
	return utils.NewPage(users, total, p), nil
}

// Detail returns one user or a 404
func (u *UserUsecase) Detail(ctx context.Context, id uuid.UUID) (*entities.User, error) {
	user, err := u.userRepo.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, notFound(domainerrors.KeyUserNotFound)
		}
		return nil, internal(err)
	}
	return user, nil
}

// Update applies admin edits, keeping email and phone unique
func (u *UserUsecase) Update(ctx context.Context, id uuid.UUID, input *entities.AdminUpdateUserInput) (*entities.User, error) {
	user, err := u.Detail(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Email != nil {
		email := normalizeEmail(*input.Email)
		if email != user.Email {
			other, err := u.userRepo.GetByEmail(ctx, email)
			if err == nil && other.ID != user.ID {
				return nil, badRequest(domainerrors.KeyEmailExist, domainerrors.ErrAlreadyExists)
			}
			if err != nil && !isNotFound(err) {
				return nil, internal(err)
			}
			user.Email = email
		}
	}
	if err := applyProfile(ctx, u.userRepo, user, &input.UpdateProfileInput); err != nil {
		return nil, err
	}
	if input.Role != nil {
		user.Role = *input.Role
	}

	if err := u.userRepo.Update(ctx, user); err != nil {
		return nil, internal(err)
	}
	return user, nil
}

// Delete soft deletes the user and ends every session it holds
func (u *UserUsecase) Delete(ctx context.Context, actorID, id uuid.UUID) error {
	if actorID == id {
		return badRequest(domainerrors.KeyCannotModifySelf, domainerrors.ErrInvalidInput)
	}
	if _, err := u.Detail(ctx, id); err != nil {
		return err
	}

	err := u.uow.Do(ctx, func(txCtx context.Context) error {
		if err := u.userRepo.SoftDelete(txCtx, id, actorID); err != nil {
			return err
		}
		_, err := u.sessionRepo.DeactivateAll(txCtx, id)
		return err
	})
	if err != nil {
		if isNotFound(err) {
			return notFound(domainerrors.KeyUserNotFound)
		}
		return internal(err)
	}

	logger.Info(ctx, "User deleted",
		zap.String("user_id", id.String()),
		zap.String("deleted_by", actorID.String()),
	)
	return nil
}

// Suspend blocks a non-admin active user
func (u *UserUsecase) Suspend(ctx context.Context, actorID, id uuid.UUID) (*entities.User, error) {
	return u.transition(ctx, actorID, id, entities.UserStatusSuspended, true)
}

// Activate lifts a suspension or ban
func (u *UserUsecase) Activate(ctx context.Context, actorID, id uuid.UUID) (*entities.User, error) {
	return u.transition(ctx, actorID, id, entities.UserStatusActive, false)
}

// Ban permanently blocks a non-admin user
func (u *UserUsecase) Ban(ctx context.Context, actorID, id uuid.UUID) (*entities.User, error) {
	return u.transition(ctx, actorID, id, entities.UserStatusBanned, true)
}

func (u *UserUsecase) transition(ctx context.Context, actorID, id uuid.UUID, to entities.UserStatus, protectAdmins bool) (*entities.User, error) {
	if actorID == id {
		return nil, badRequest(domainerrors.KeyCannotModifySelf, domainerrors.ErrInvalidInput)
	}
	user, err := u.Detail(ctx, id)
	if err != nil {
		return nil, err
	}
	if protectAdmins && user.Role.IsAdmin() {
		return nil, badRequest(domainerrors.KeyCannotModifyAdmin, domainerrors.ErrInvalidInput)
	}
	if user.Status == to {
		return nil, badRequest(domainerrors.KeyStatusInvalid, domainerrors.ErrInvalidInput)
	}

	if err := u.userRepo.UpdateStatus(ctx, id, to); err != nil {
		if isNotFound(err) {
			return nil, notFound(domainerrors.KeyUserNotFound)
		}
		return nil, internal(err)
	}
	user.Status = to

	logger.Info(ctx, "User status changed",
		zap.String("user_id", id.String()),
		zap.String("status", string(to)),
		zap.String("actor_id", actorID.String()),
	)
	return user, nil
}
