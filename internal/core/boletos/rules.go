package boletos

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"boleto-service/internal/domain"

	"github.com/schollz/closestmatch"
)

func mathRound(val float64, precision int) float64 {
	pow := 1.0
	for i := 0; i < precision; i++ {
		pow *= 10
	}
	if val >= 0 {
		return float64(int64(val*pow+0.5)) / pow
	}
	return float64(int64(val*pow-0.5)) / pow
}

// ValorFinalDDD aplica a regra de composição do valor a faturar:
//   - DDD 42/47: vendas líquidas + cobranças líquidas
//   - DDD 61/63: somente vendas líquidas
//   - qualquer outro: somente vendas líquidas (fallback)
func ValorFinalDDD(v domain.VendaAgregada) float64 {
	switch v.DDD {
	case 42, 47:
		return mathRound(v.ValorLiquidoVendas+v.ValorLiquidoCobrancas, 2)
	case 61, 63:
		return mathRound(v.ValorLiquidoVendas, 2)
	default:
		return mathRound(v.ValorLiquidoVendas, 2)
	}
}

// DetectarDDD resolve o DDD de um vendedor agregado sem código de área:
// herda do primeiro desmembramento cujo nome corresponde; senão 42.
func DetectarDDD(v domain.VendaAgregada, desms []domain.DesmembramentoAgregado) int {
	if v.DDD > 0 {
		return v.DDD
	}
	for _, d := range desms {
		if d.DDD > 0 && NomesCorrespondem(v.Vendedor, d.Vendedor) {
			return d.DDD
		}
	}
	return 42
}

// AplicarDesmembramentos gera os boletos de cada vendedor, na ordem de
// entrada dos totais. Os desmembramentos casados (por NomesCorrespondem)
// são abatidos do valor final; o boleto principal sai primeiro com o
// restante, seguido de um boleto por desmembramento na ordem em que
// foram agregados, herdando o DDD do vendedor.
//
// Restante negativo não interrompe a execução: o boleto principal é
// omitido, os desmembramentos permanecem e o relatório ganha um aviso.
// Um mesmo desmembramento pode casar com mais de um vendedor quando os
// nomes são ambíguos; a relação de casamento é propositalmente pareada,
// não particionada.
func AplicarDesmembramentos(totais []domain.TotalVendedor, desms []domain.DesmembramentoAgregado, rel *domain.RelatorioProcessamento) []domain.Boleto {
	var boletos []domain.Boleto

	var cm *closestmatch.ClosestMatch
	if len(desms) > 0 {
		chaves := make([]string, 0, len(desms))
		vistas := make(map[string]bool, len(desms))
		for _, d := range desms {
			if !vistas[d.ChaveVendedor] {
				vistas[d.ChaveVendedor] = true
				chaves = append(chaves, d.ChaveVendedor)
			}
		}
		cm = closestmatch.New(chaves, []int{2, 3})
	}

	for _, t := range totais {
		var casados []domain.DesmembramentoAgregado
		totalDesm := 0.0
		for _, d := range desms {
			if NomesCorrespondem(t.Vendedor, d.Vendedor) {
				casados = append(casados, d)
				totalDesm += d.Valor
			}
		}

		if len(casados) == 0 {
			boletos = append(boletos, domain.Boleto{
				Vendedor: t.Vendedor,
				Valor:    t.Valor,
				DDD:      t.DDD,
			})
			if cm != nil && rel != nil {
				if sugestao := cm.Closest(NormalizarNome(t.Vendedor)); sugestao != "" {
					rel.Avisar("vendedor %q sem desmembramentos; nome mais próximo na planilha: %q", t.Vendedor, sugestao)
				}
			}
			continue
		}

		restante := mathRound(t.Valor-totalDesm, 2)
		if restante > 0 {
			boletos = append(boletos, domain.Boleto{
				Vendedor: t.Vendedor,
				Valor:    restante,
				DDD:      t.DDD,
			})
		} else if restante < 0 && rel != nil {
			rel.Avisar("desmembramentos de %q (R$ %.2f) excedem o valor final (R$ %.2f); boleto principal omitido", t.Vendedor, totalDesm, t.Valor)
		}

		for _, d := range casados {
			boletos = append(boletos, domain.Boleto{
				Vendedor:         t.Vendedor,
				Valor:            mathRound(d.Valor, 2),
				DDD:              t.DDD,
				CodigoPDV:        d.CodigoPDV,
				Vencimento:       d.Vencimento,
				IsDesmembramento: true,
			})
		}
	}

	return boletos
}

var diaPeriodoRegex = regexp.MustCompile(`^(\d{2})`)

// diaDoPeriodo extrai o dia (dois dígitos iniciais) do rótulo de
// período; 1 quando ausente ou ilegível.
func diaDoPeriodo(periodo string) int {
	if m := diaPeriodoRegex.FindStringSubmatch(strings.TrimSpace(periodo)); m != nil {
		if dia, err := strconv.Atoi(m[1]); err == nil {
			return dia
		}
	}
	return 1
}

// DividirBoleto divide um valor acima do teto do DDD em parcelas
// determinísticas semeadas pelo dia do período:
//   - DDD 63 (teto 1000): min(restante, 900 + dia + 0,10*i)
//   - DDD 61 (teto 5000): min(restante, 4900 + dia + 0,10*i)
//   - demais DDDs: sem teto, valor único
//
// O laço para quando o restante chega a zero; um limite duro de 100
// iterações interrompe divisões desgovernadas de entrada malformada,
// devolvendo as parcelas acumuladas e avisando no relatório.
func DividirBoleto(valor float64, ddd int, periodo string, rel *domain.RelatorioProcessamento) []float64 {
	limite := math.Inf(1)
	base := 0.0
	switch ddd {
	case 63:
		limite = 1000
		base = 900
	case 61:
		limite = 5000
		base = 4900
	}

	if valor <= limite {
		return []float64{valor}
	}

	dia := float64(diaDoPeriodo(periodo))
	var parcelas []float64
	restante := valor
	indice := 0

	for restante > 0 {
		parcela := mathRound(math.Min(restante, base+dia+0.10*float64(indice)), 2)
		parcelas = append(parcelas, parcela)
		restante = mathRound(restante-parcela, 2)
		indice++

		if indice > 100 {
			if rel != nil {
				rel.Avisar("divisão interrompida após %d parcelas (valor R$ %.2f, DDD %d); restaram R$ %.2f", len(parcelas), valor, ddd, restante)
			}
			break
		}
	}

	return parcelas
}

// DividirBoletos aplica DividirBoleto a cada boleto; valores divididos
// viram N cópias com SplitIndex 1..N e os demais campos preservados.
func DividirBoletos(boletos []domain.Boleto, periodo string, rel *domain.RelatorioProcessamento) []domain.Boleto {
	out := make([]domain.Boleto, 0, len(boletos))
	for _, b := range boletos {
		parcelas := DividirBoleto(b.Valor, b.DDD, periodo, rel)
		if len(parcelas) == 1 {
			out = append(out, b)
			continue
		}
		if rel != nil {
			rel.BoletosDivididos++
		}
		for i, parcela := range parcelas {
			dividido := b
			dividido.Valor = parcela
			dividido.IsSplit = true
			dividido.SplitIndex = i + 1
			dividido.TotalSplits = len(parcelas)
			out = append(out, dividido)
		}
	}
	return out
}

// NumerarSequencial atribui numeroInicial+i a cada boleto na ordem de
// emissão, sem reordenar.
func NumerarSequencial(boletos []domain.Boleto, numeroInicial int) []domain.Boleto {
	out := make([]domain.Boleto, len(boletos))
	for i, b := range boletos {
		b.Numero = numeroInicial + i
		out[i] = b
	}
	return out
}
