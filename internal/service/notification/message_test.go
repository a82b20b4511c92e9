package notification

import (
	"testing"

	"github.com/darkkaiser/price-watcher/internal/service/contract"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestBuildMessage(t *testing.T) {
	t.Parallel()

	product := contract.Product{
		ID:          "p1",
		Name:        "Smart TV 50\"",
		SourceURL:   "https://loja.example/tv",
		TargetPrice: decimal.NewNullDecimal(decimal.RequireFromString("2500")),
	}

	want := "🔔 Alerta de preço!\n\n" +
		"Produto: Smart TV 50\"\n" +
		"Preço alvo: R$ 2.500,00\n" +
		"Preço atual: R$ 2.349,90\n" +
		"\nhttps://loja.example/tv"

	assert.Equal(t, want, BuildMessage(product, decimal.RequireFromString("2349.9")))
}

func TestBuildMessage_Fallbacks(t *testing.T) {
	t.Parallel()

	msg := BuildMessage(contract.Product{ID: "p7"}, decimal.NewFromInt(10))

	assert.Contains(t, msg, "Produto: p7")
	assert.Contains(t, msg, "Preço atual: R$ 10,00")
	assert.NotContains(t, msg, "Preço alvo")
	assert.NotContains(t, msg, "\n\n\n")
}
