package notification

import (
	"strings"

	"github.com/darkkaiser/price-watcher/internal/service/contract"
	"github.com/darkkaiser/price-watcher/internal/service/pricing"
	"github.com/shopspring/decimal"
)

// BuildMessage 수신자에게 보낼 pt-BR 알림 문구를 만듭니다.
func BuildMessage(product contract.Product, currentPrice decimal.Decimal) string {
	name := product.Name
	if name == "" {
		name = product.ID
	}

	var sb strings.Builder
	sb.WriteString("🔔 Alerta de preço!\n\n")
	sb.WriteString("Produto: " + name + "\n")
	if product.TargetPrice.Valid {
		sb.WriteString("Preço alvo: " + pricing.FormatBRL(product.TargetPrice.Decimal) + "\n")
	}
	sb.WriteString("Preço atual: " + pricing.FormatBRL(currentPrice) + "\n")
	if product.SourceURL != "" {
		sb.WriteString("\n" + product.SourceURL)
	}

	return strings.TrimRight(sb.String(), "\n")
}
