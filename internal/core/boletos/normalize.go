package boletos

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// NormalizarNome canonicaliza um nome de vendedor para comparação:
// minúsculas, sem acentos (decomposição NFD + remoção de marcas
// combinantes), espaços colapsados. Entrada vazia retorna vazio.
func NormalizarNome(str string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(func(r rune) bool {
		return unicode.Is(unicode.Mn, r)
	}))
	result, _, _ := transform.String(t, str)
	result = strings.ToLower(result)
	result = whitespaceRegex.ReplaceAllString(result, " ")
	return strings.TrimSpace(result)
}

// NomesCorrespondem decide se dois nomes se referem ao mesmo vendedor.
// A relação é aproximada e NÃO transitiva: aceita igualdade das formas
// normalizadas, uma forma contida na outra, primeiro e último tokens
// iguais, ou um par de tokens consecutivos em comum. Quem chama não pode
// tratar isso como relação de equivalência.
func NomesCorrespondem(a, b string) bool {
	na := NormalizarNome(a)
	nb := NormalizarNome(b)
	if na == "" || nb == "" {
		return false
	}
	if na == nb {
		return true
	}
	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		return true
	}

	ta := strings.Fields(na)
	tb := strings.Fields(nb)
	if len(ta) < 2 || len(tb) < 2 {
		return false
	}
	if ta[0] == tb[0] && ta[len(ta)-1] == tb[len(tb)-1] {
		return true
	}
	return temBigramaComum(ta, tb)
}

// temBigramaComum verifica se as listas de tokens compartilham algum par
// de tokens consecutivos ("silva neto" em "joao silva neto" e em
// "silva neto jr", por exemplo).
func temBigramaComum(ta, tb []string) bool {
	for i := 0; i+1 < len(ta); i++ {
		for j := 0; j+1 < len(tb); j++ {
			if ta[i] == tb[j] && ta[i+1] == tb[j+1] {
				return true
			}
		}
	}
	return false
}
