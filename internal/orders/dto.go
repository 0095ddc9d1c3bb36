package orders

import (
	"strings"
	"time"

	"github.com/PHRJr/BuritisProject/pkg/types"
)

// Submission is the body of a shopper batch. Rede takes precedence over Loja
// when both are sent.
type Submission struct {
	Network      string           `json:"rede"`
	Store        string           `json:"loja"`
	ContactName  string           `json:"nome"`
	ContactPhone string           `json:"telefone"`
	Note         string           `json:"observacao"`
	Items        []SubmissionItem `json:"produtos"`
}

// GroupingName returns the network or store the batch was collected for.
func (s Submission) GroupingName() string {
	if network := strings.TrimSpace(s.Network); network != "" {
		return network
	}
	return strings.TrimSpace(s.Store)
}

// SubmissionItem is one counted product.
type SubmissionItem struct {
	Code         string            `json:"codigo"`
	Quantity     types.LooseNumber `json:"quantidade"`
	ExpiresOn    string            `json:"validade"`
	Price        types.LooseNumber `json:"preco"`
	Promotional  types.LooseBool   `json:"promocao"`
	ExtraDisplay types.LooseBool   `json:"ponto_extra"`
}

// SubmitResult is returned once every row is committed.
type SubmitResult struct {
	Items       int       `json:"itens"`
	SubmittedAt time.Time `json:"enviado_em"`
}
