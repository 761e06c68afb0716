package services

import (
	"context"

	"github.com/franciscosanchezn/gin-fastfood-api/internal/models"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ClientService manages OAuth2 clients used by kitchen and delivery integrations
type ClientService interface {
	// RegisterClient creates a client owned by ownerID and returns it with
	// the plain secret, which is not stored and cannot be read back later
	RegisterClient(ctx context.Context, ownerID uint, input models.ClientInput) (*models.OAuthClient, string, error)
	GetClientsByUserID(ctx context.Context, userID uint) ([]models.OAuthClient, error)
	GetClientByID(ctx context.Context, id string) (*models.OAuthClient, error)
	DeleteClient(ctx context.Context, clientID string, userID uint) error
}

type clientService struct {
	db *gorm.DB
}

func NewClientService(db *gorm.DB) ClientService {
	return &clientService{db: db}
}

func (s *clientService) RegisterClient(ctx context.Context, ownerID uint, input models.ClientInput) (*models.OAuthClient, string, error) {
	secret := uuid.New().String()
	hashedSecret, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", errors.Wrap(err, "hash client secret")
	}

	client := &models.OAuthClient{
		ID:          uuid.New().String(),
		Secret:      string(hashedSecret),
		Name:        input.Name,
		Domain:      input.Domain,
		Scopes:      input.Scopes,
		GrantTypes:  "client_credentials",
		RedirectURI: input.RedirectURI,
		UserID:      ownerID,
	}
	if err := s.db.WithContext(ctx).Create(client).Error; err != nil {
		return nil, "", errors.Wrap(err, "create client")
	}
	log.WithFields(logrus.Fields{"client_id": client.ID, "owner_id": ownerID}).Info("OAuth client registered")
	return client, secret, nil
}

func (s *clientService) GetClientsByUserID(ctx context.Context, userID uint) ([]models.OAuthClient, error) {
	var clients []models.OAuthClient
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at").Find(&clients).Error; err != nil {
		return nil, errors.Wrapf(err, "list clients of user %d", userID)
	}
	return clients, nil
}

func (s *clientService) GetClientByID(ctx context.Context, id string) (*models.OAuthClient, error) {
	var client models.OAuthClient
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&client).Error; err != nil {
		return nil, notFound(err, "client %s", id)
	}
	return &client, nil
}

func (s *clientService) DeleteClient(ctx context.Context, clientID string, userID uint) error {
	result := s.db.WithContext(ctx).Where("id = ? AND user_id = ?", clientID, userID).Delete(&models.OAuthClient{})
	if result.Error != nil {
		return errors.Wrapf(result.Error, "delete client %s", clientID)
	}
	if result.RowsAffected == 0 {
		return errors.Wrapf(ErrNotFound, "client %s", clientID)
	}
	log.WithField("client_id", clientID).Info("OAuth client deleted")
	return nil
}
