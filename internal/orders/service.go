package orders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PHRJr/BuritisProject/pkg/db/models"
	pkgerrors "github.com/PHRJr/BuritisProject/pkg/errors"
	"github.com/PHRJr/BuritisProject/pkg/identity"
	"github.com/PHRJr/BuritisProject/pkg/logger"
	"github.com/PHRJr/BuritisProject/pkg/metrics"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	maxContactNameLen  = 120
	maxContactPhoneLen = 40
	maxNoteLen         = 1000
	maxCodeLen         = 64

	quantityScale = 3
	priceScale    = 2
)

// Upper bounds (exclusive) of the NUMERIC(12,3) quantity and NUMERIC(12,2)
// price columns.
var (
	maxQuantity = decimal.New(1, 12-quantityScale)
	maxPrice    = decimal.New(1, 12-priceScale)
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service records shopper submissions.
type Service interface {
	Submit(ctx context.Context, who identity.Identity, submission Submission) (*SubmitResult, error)
}

type service struct {
	repo    Repository
	tx      txRunner
	metrics *metrics.Metrics
	logg    *logger.Logger
	now     func() time.Time
}

// NewService wires the submission repository with its transaction runner.
func NewService(repo Repository, tx txRunner, m *metrics.Metrics, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if m == nil {
		m = metrics.New(nil)
	}
	return &service{repo: repo, tx: tx, metrics: m, logg: logg, now: time.Now}, nil
}

// Submit validates every item up front and then inserts the batch in one
// transaction. All rows share the identity and the submission timestamp.
func (s *service) Submit(ctx context.Context, who identity.Identity, submission Submission) (*SubmitResult, error) {
	if err := who.Validate(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "Sessão inválida.")
	}

	items, err := s.buildItems(who, submission)
	if err != nil {
		s.metrics.ObserveSubmission(metrics.ResultFailure, 0)
		return nil, err
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		for i := range items {
			if err := repo.InsertItem(ctx, &items[i]); err != nil {
				return insertError(err, i+1)
			}
		}
		return nil
	})
	if err != nil {
		s.metrics.ObserveSubmission(metrics.ResultFailure, 0)
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "Erro ao salvar os dados.")
	}

	s.metrics.ObserveSubmission(metrics.ResultSuccess, len(items))
	ctx = s.logg.WithFields(ctx, map[string]any{
		"grouping": items[0].GroupingName,
		"items":    len(items),
	})
	s.logg.Info(ctx, "submission recorded")

	return &SubmitResult{Items: len(items), SubmittedAt: items[0].SubmittedAt}, nil
}

func (s *service) buildItems(who identity.Identity, submission Submission) ([]models.SubmittedItem, error) {
	grouping := submission.GroupingName()
	if grouping == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Informe a rede ou a loja.")
	}
	if len(submission.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Nenhum item para salvar.")
	}

	submittedAt := s.now().UTC()
	contactName := truncate(submission.ContactName, maxContactNameLen)
	contactPhone := truncate(submission.ContactPhone, maxContactPhoneLen)
	var note *string
	if n := truncate(submission.Note, maxNoteLen); n != "" {
		note = &n
	}

	items := make([]models.SubmittedItem, 0, len(submission.Items))
	for i, in := range submission.Items {
		position := i + 1

		code := strings.TrimSpace(in.Code)
		if code == "" || len(code) > maxCodeLen {
			return nil, itemError(position, "codigo", "código do produto ausente ou inválido")
		}

		if !in.Quantity.Valid {
			return nil, itemError(position, "quantidade", "quantidade obrigatória")
		}
		quantity, err := in.Quantity.Decimal()
		if err != nil || quantity.IsNegative() {
			return nil, itemError(position, "quantidade", "quantidade inválida")
		}
		quantity = quantity.Round(quantityScale)
		if quantity.GreaterThanOrEqual(maxQuantity) {
			return nil, itemError(position, "quantidade", "quantidade acima do limite permitido")
		}

		var price *decimal.Decimal
		if in.Price.Valid {
			p, err := in.Price.Decimal()
			if err != nil || p.IsNegative() {
				return nil, itemError(position, "preco", "preço inválido")
			}
			p = p.Round(priceScale)
			if p.GreaterThanOrEqual(maxPrice) {
				return nil, itemError(position, "preco", "preço acima do limite permitido")
			}
			price = &p
		}

		expiresOn, err := parseExpiry(in.ExpiresOn)
		if err != nil {
			return nil, itemError(position, "validade", "data de validade inválida")
		}

		items = append(items, models.SubmittedItem{
			Identity:         who.Subject,
			GroupingName:     grouping,
			ProductCode:      code,
			Quantity:         quantity,
			ExpiresOn:        expiresOn,
			UnitPrice:        price,
			PromotionalPrice: bool(in.Promotional),
			ExtraDisplay:     bool(in.ExtraDisplay),
			ContactName:      contactName,
			ContactPhone:     contactPhone,
			Note:             note,
			SubmittedAt:      submittedAt,
		})
	}
	return items, nil
}

// insertError reports constraint rejections as validation errors.
func insertError(err error, position int) error {
	switch pkgerrors.ClassifyStoreFailure(err) {
	case pkgerrors.StoreFailureCheck, pkgerrors.StoreFailureOutOfRange, pkgerrors.StoreFailureNotNull:
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, fmt.Sprintf("Item %d: valor fora do intervalo permitido.", position)).
			WithDetails(map[string]any{"item": position})
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "Erro ao salvar os dados.").
		WithDetails(map[string]any{"step": fmt.Sprintf("insert item %d", position)})
}

func itemError(position int, field, reason string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("Item %d: %s.", position, reason)).
		WithDetails(map[string]any{"item": position, "campo": field})
}

func truncate(value string, max int) string {
	value = strings.TrimSpace(value)
	runes := []rune(value)
	if len(runes) <= max {
		return value
	}
	return strings.TrimSpace(string(runes[:max]))
}
