package reports

import (
	"strconv"

	"github.com/PHRJr/BuritisProject/pkg/db/models"
)

const (
	dateLayout      = "02/01/2006"
	timestampLayout = "02/01/2006 15:04:05"
)

type entryRow struct {
	ID           string `csv:"ID"`
	SubmittedAt  string `csv:"Data de envio"`
	Identity     string `csv:"Usuário"`
	Grouping     string `csv:"Rede"`
	ProductCode  string `csv:"Código do produto"`
	Quantity     string `csv:"Quantidade"`
	ExpiresOn    string `csv:"Validade"`
	UnitPrice    string `csv:"Preço unitário"`
	Promotional  string `csv:"Preço promocional"`
	ExtraDisplay string `csv:"Ponto extra"`
	ContactName  string `csv:"Nome"`
	ContactPhone string `csv:"Telefone"`
	Note         string `csv:"Observação"`
}

func newEntryRow(item models.SubmittedItem) entryRow {
	row := entryRow{
		ID:           strconv.FormatUint(item.ID, 10),
		SubmittedAt:  item.SubmittedAt.UTC().Format(timestampLayout),
		Identity:     item.Identity,
		Grouping:     item.GroupingName,
		ProductCode:  item.ProductCode,
		Quantity:     item.Quantity.String(),
		Promotional:  yesNo(item.PromotionalPrice),
		ExtraDisplay: yesNo(item.ExtraDisplay),
		ContactName:  item.ContactName,
		ContactPhone: item.ContactPhone,
	}
	if item.ExpiresOn != nil {
		row.ExpiresOn = item.ExpiresOn.Format(dateLayout)
	}
	if item.UnitPrice != nil {
		row.UnitPrice = item.UnitPrice.StringFixed(2)
	}
	if item.Note != nil {
		row.Note = *item.Note
	}
	return row
}

func yesNo(v bool) string {
	if v {
		return "Sim"
	}
	return "Não"
}
