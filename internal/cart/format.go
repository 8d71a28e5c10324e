package cart

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// O app trabalha com uma única moeda e um único locale (VND, vi-VN);
// não há configurabilidade de formatação.
var pricePrinter = message.NewPrinter(language.Vietnamese)

// FormatPrice formata um valor inteiro em VND com o agrupamento de
// milhares do locale vi-VN e o sufixo de đồng. É a única regra de
// formatação de preço do sistema: todo lugar que exibe preço passa por
// aqui. Exemplo: FormatPrice(1234567) == "1.234.567đ".
func FormatPrice(value int64) string {
	return pricePrinter.Sprintf("%dđ", value)
}
