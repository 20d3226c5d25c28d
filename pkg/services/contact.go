package services

import (
	"fmt"
	"strings"

	"homechef/pkg/logger"
	"homechef/pkg/models"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

type ContactInput struct {
	Name    string
	Email   string
	Subject string
	Message string
}

// ContactService stores messages sent through the contact page.
type ContactService struct {
	db       *gorm.DB
	validate *validator.Validate
	log      *logger.Logger
}

func NewContactService(db *gorm.DB, log *logger.Logger) *ContactService {
	return &ContactService{db: db, validate: validator.New(), log: log.WithComponent("contact")}
}

func (s *ContactService) Submit(in ContactInput) (*models.ContactMessage, error) {
	var errs fieldErrors
	msg := &models.ContactMessage{
		Name:    strings.TrimSpace(in.Name),
		Email:   NormalizeEmail(in.Email),
		Subject: strings.TrimSpace(in.Subject),
		Message: strings.TrimSpace(in.Message),
	}
	if msg.Name == "" {
		errs.add("Please tell us your name.")
	}
	errs.maxLen(msg.Name, models.MaxUserNameLen, "Name")
	if s.validate.Var(msg.Email, "required,email") != nil {
		errs.add("Enter a valid email address.")
	} else {
		errs.maxLen(msg.Email, models.MaxEmailLen, "Email")
	}
	errs.maxLen(msg.Subject, models.MaxSubjectLen, "Subject")
	if msg.Message == "" {
		errs.add("Please write a message.")
	}
	if err := errs.Err(); err != nil {
		return nil, err
	}

	if err := s.db.Create(msg).Error; err != nil {
		return nil, fmt.Errorf("save contact message: %w", err)
	}
	s.log.Info("Contact message received", "message_id", msg.ID)
	return msg, nil
}
