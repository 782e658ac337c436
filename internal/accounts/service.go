package accounts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/marketrecon-backend/internal/marketplaces"
	"github.com/angelmondragon/marketrecon-backend/pkg/db"
	"github.com/angelmondragon/marketrecon-backend/pkg/db/models"
	"github.com/angelmondragon/marketrecon-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/marketrecon-backend/pkg/errors"
)

// Service manages seller accounts.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.MarketplaceAccount, error)
	List(ctx context.Context) ([]AccountSummary, error)
}

// credentialSealer encrypts credential documents bound to an account id.
type credentialSealer interface {
	Seal(plaintext []byte, associated []byte) (json.RawMessage, error)
}

type service struct {
	repo         Repository
	marketplaces marketplaces.Repository
	sealer       credentialSealer
}

func NewService(repo Repository, marketplaceRepo marketplaces.Repository, sealer credentialSealer) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("accounts repository required")
	}
	if marketplaceRepo == nil {
		return nil, fmt.Errorf("marketplaces repository required")
	}
	if sealer == nil {
		return nil, fmt.Errorf("credentials sealer required")
	}
	return &service{repo: repo, marketplaces: marketplaceRepo, sealer: sealer}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.MarketplaceAccount, error) {
	if input.MarketplaceID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "marketplace id required")
	}
	sellerID := strings.TrimSpace(input.SellerID)
	if sellerID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "seller id required")
	}
	status := input.Status
	if status == "" {
		status = enums.AccountStatusActive
	}
	if !status.IsValid() {
		return nil, pkgerrors.Newf(pkgerrors.CodeValidation, "invalid account status %q", status)
	}

	marketplace, err := s.marketplaces.FindByID(ctx, input.MarketplaceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "marketplace not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load marketplace")
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = fmt.Sprintf("%s - %s", marketplace.Name, sellerID)
	}

	account := &models.MarketplaceAccount{
		ID:            uuid.New(),
		MarketplaceID: marketplace.ID,
		SellerID:      sellerID,
		Name:          name,
		Status:        status,
	}
	// Credentials are stored sealed, never as submitted.
	if plain := bytes.TrimSpace(input.Credentials); len(plain) > 0 && !bytes.Equal(plain, []byte("null")) {
		sealed, err := s.sealer.Seal(plain, []byte(account.ID.String()))
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "seal credentials")
		}
		account.Credentials = sealed
	}
	if err := s.repo.Create(ctx, account); err != nil {
		if db.IsUniqueViolation(err, "ux_marketplace_accounts_seller") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "account already registered for this seller")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create account")
	}
	account.Marketplace = marketplace
	return account, nil
}

func (s *service) List(ctx context.Context) ([]AccountSummary, error) {
	rows, err := s.repo.ListWithCounts(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list accounts")
	}
	return rows, nil
}
