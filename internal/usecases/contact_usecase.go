package usecases

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"go.uber.org/zap"
	"p2p-lending.backend/internal/domain/entities"
	domainerrors "p2p-lending.backend/internal/domain/errors"
	"p2p-lending.backend/internal/domain/repositories"
	"p2p-lending.backend/internal/infrastructure/mail"
	"p2p-lending.backend/pkg/logger"
	"p2p-lending.backend/pkg/utils"
)

const contactResponseSubject = "Phản hồi liên hệ"

var contactNow = time.Now

// ContactUsecase handles the public contact form and admin replies
type ContactUsecase struct {
	contactRepo repositories.ContactRepository
	mailer      Mailer
}

func NewContactUsecase(contactRepo repositories.ContactRepository, mailer Mailer) *ContactUsecase {
	return &ContactUsecase{
		contactRepo: contactRepo,
		mailer:      mailer,
	}
}

func (u *ContactUsecase) Create(ctx context.Context, input *entities.CreateContactInput) (*entities.Contact, error) {
	contact := &entities.Contact{
		Email:    normalizeEmail(input.Email),
		FullName: strings.TrimSpace(input.FullName),
		Phone:    null.NewString(input.Phone, input.Phone != ""),
		Message:  strings.TrimSpace(input.Message),
	}
	if err := u.contactRepo.Create(ctx, contact); err != nil {
		return nil, internal(err)
	}
	return contact, nil
}

func (u *ContactUsecase) List(ctx context.Context, isResponded *bool, page, limit int) (utils.Page[*entities.Contact], error) {
	p := utils.GetPaginationParams(page, limit)
	items, total, err := u.contactRepo.List(ctx, entities.ContactFilter{
		IsResponded: isResponded,
		Limit:       p.Limit,
		Offset:      p.CalculateOffset(),
	})
	if err != nil {
		return utils.Page[*entities.Contact]{}, internal(err)
	}
	return utils.NewPage(items, total, p), nil
}

func (u *ContactUsecase) Detail(ctx context.Context, id uuid.UUID) (*entities.Contact, error) {
	contact, err := u.contactRepo.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, notFound(domainerrors.KeyNotFound)
		}
		return nil, internal(err)
	}
	return contact, nil
}

func (u *ContactUsecase) Delete(ctx context.Context, id uuid.UUID) error {
	if err := u.contactRepo.SoftDelete(ctx, id); err != nil {
		if isNotFound(err) {
			return notFound(domainerrors.KeyNotFound)
		}
		return internal(err)
	}
	return nil
}

// Respond records the admin's reply once and mails it to the sender
func (u *ContactUsecase) Respond(ctx context.Context, actorID, id uuid.UUID, input *entities.RespondContactInput) (*entities.Contact, error) {
	contact, err := u.Detail(ctx, id)
	if err != nil {
		return nil, err
	}
	if contact.IsResponded {
		return nil, badRequest(domainerrors.KeyStatusInvalid, domainerrors.ErrInvalidInput)
	}

	response := strings.TrimSpace(input.Response)
	if err := u.contactRepo.MarkResponded(ctx, id, actorID, response); err != nil {
		// lost a race with another admin
		if isNotFound(err) {
			return nil, badRequest(domainerrors.KeyStatusInvalid, domainerrors.ErrInvalidInput)
		}
		return nil, internal(err)
	}

	contact.Response = null.StringFrom(response)
	contact.IsResponded = true
	contact.RespondedBy = uuid.NullUUID{UUID: actorID, Valid: true}
	contact.RespondedAt = null.TimeFrom(contactNow())

	u.mailer.Dispatch(mail.Message{
		To:       contact.Email,
		Subject:  contactResponseSubject,
		Template: mail.TemplateResponseContact,
		Context: map[string]interface{}{
			"message":  contact.Message,
			"response": response,
		},
	})

	logger.Info(ctx, "Contact responded",
		zap.String("contact_id", id.String()),
		zap.String("responded_by", actorID.String()),
	)
	return contact, nil
}
